package util

import (
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// UID returns a short random identifier for flights and brackets.
func UID() string {
	b := make([]byte, 7)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToHHMM renders minutes-from-midnight as HH:MM. Values outside [0, 1440)
// fold back onto the clock face.
func ToHHMM(m int) string {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

var hhmmRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)

// ToMin parses an HH:MM string into minutes from midnight. Malformed input
// yields 0, matching the tolerant behavior the CSV feeds rely on.
func ToMin(hhmm string) int {
	m := hhmmRe.FindStringSubmatch(strings.TrimSpace(hhmm))
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm
}

// ParseHour extracts the hour from an HHMM-style string.
func ParseHour(timeStr string) int {
	if len(timeStr) < 2 {
		return 0
	}
	hour, err := strconv.Atoi(timeStr[:2])
	if err != nil {
		return 0
	}
	return hour
}

// ParseMinute extracts the minute from an HHMM-style string.
func ParseMinute(timeStr string) int {
	if len(timeStr) < 4 {
		return 0
	}
	minute, err := strconv.Atoi(timeStr[2:4])
	if err != nil {
		return 0
	}
	return minute
}

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
func LoadConfig[T any](filepath string) (*T, error) {
	// 1. Read the file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. Initialize an empty instance of T
	var config T

	// 3. Unmarshal the YAML data into the struct
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &config, nil
}
