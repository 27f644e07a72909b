//go:build rp2040 || rp2350

package metrics

import (
	"context"

	"github.com/sirupsen/logrus"

	"envpaper-go/bus"
	"envpaper-go/types"
)

// Service is a no-op on microcontrollers; there is no network to serve on.
type Service struct{}

func New(logrus.FieldLogger) *Service { return &Service{} }

func (s *Service) Observe(types.TickReport)                    {}
func (s *Service) Addr() string                                { return "" }
func (s *Service) Start(context.Context, *bus.Connection) error { return nil }
