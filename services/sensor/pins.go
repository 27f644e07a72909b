package sensor

import (
	"strconv"
	"strings"

	"envpaper-go/errcode"
)

// parseGPIO accepts "15", "GP15" or "GPIO15" and returns the GPIO number.
func parseGPIO(name string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "GPIO")
	s = strings.TrimPrefix(s, "GP")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "parseGPIO", Msg: name}
	}
	return n, nil
}
