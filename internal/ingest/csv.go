// Package ingest parses the four operational CSV feeds: flights, drivers,
// shift windows, and the autolift roster. The feeds come from office
// exports, so parsing is deliberately forgiving: either delimiter, BOM,
// ragged rows, Windows-1251 fallback for the Cyrillic driver names.
package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/internal/timing"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

var log = logrus.WithField("component", "ingest")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode strips a BOM and converts Windows-1251 exports to UTF-8.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode cp1251: %w", err)
	}
	log.Info("input decoded as windows-1251")
	return string(out), nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sniffDelimiter picks between comma and semicolon from the header row.
func sniffDelimiter(header string) string {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ";"
	}
	return ","
}

// header aliases tolerated in the flights feed
var flightAliases = map[string][]string{
	"FLIGHT": {"FLIGHT", "FLIGHT NO", "FLIGHT_NO", "FLIGHTNO"},
	"FROM":   {"FROM", "DEPARTURE", "ORIGIN"},
	"TO":     {"TO", "ARRIVAL", "DESTINATION", "DEST"},
	"ROUTE":  {"ROUTE"},
	"STD":    {"STD", "SCHEDULED TIME DEPARTURE", "STDMIN"},
	"TYPE":   {"TYPE", "FLIGHT TYPE", "FLIGHTTYPE"},
	"AC":     {"AC", "ACTYPE", "AIRCRAFT TYPE"},
}

func columnIndex(header []string, key string) int {
	for _, alias := range flightAliases[key] {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

var stdDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})\s+(\d{1,2}):(\d{2})$`)
var stdTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// parseSTD accepts raw minutes, HH:MM, or DD.MM.YYYY HH:MM. The date, when
// present, comes back as YYYY-MM-DD.
func parseSTD(s string) (minutes int, date string) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))

	if n, err := strconv.Atoi(s); err == nil {
		return n, ""
	}
	if m := stdDateRe.FindStringSubmatch(s); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		date = fmt.Sprintf("%s-%02d-%02d", year, month, day)
		h, _ := strconv.Atoi(m[4])
		mm, _ := strconv.Atoi(m[5])
		return h*60 + mm, date
	}
	if m := stdTimeRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return h*60 + mm, ""
	}
	return 0, ""
}

// ParseFlights reads the flights feed. Rows missing a flight number or a
// parseable STD are skipped, not fatal.
func ParseFlights(data []byte) ([]model.Flight, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return []model.Flight{}, nil
	}

	delim := sniffDelimiter(lines[0])
	header := make([]string, 0)
	for _, h := range strings.Split(lines[0], delim) {
		header = append(header, strings.ToUpper(strings.TrimSpace(h)))
	}

	iFlight := columnIndex(header, "FLIGHT")
	iFrom := columnIndex(header, "FROM")
	iTo := columnIndex(header, "TO")
	iRoute := columnIndex(header, "ROUTE")
	iSTD := columnIndex(header, "STD")
	iType := columnIndex(header, "TYPE")

	flights := []model.Flight{}
	for _, line := range lines[1:] {
		parts := strings.Split(line, delim)
		field := func(idx int) string {
			if idx >= 0 && idx < len(parts) {
				return strings.TrimSpace(parts[idx])
			}
			return ""
		}

		flightNo := field(iFlight)
		stdStr := field(iSTD)
		if flightNo == "" || stdStr == "" {
			continue
		}

		var origin, dest string
		if iRoute >= 0 {
			if route := field(iRoute); strings.Contains(route, "-") {
				segs := strings.SplitN(route, "-", 2)
				origin = strings.ToUpper(strings.TrimSpace(segs[0]))
				dest = strings.ToUpper(strings.TrimSpace(segs[1]))
			}
		} else {
			origin = strings.ToUpper(field(iFrom))
			dest = strings.ToUpper(field(iTo))
		}

		// TYPE carries the aircraft code; the AC column is the tail number.
		acType := timing.NormType(field(iType))
		if acType == "" {
			acType = "320"
		}

		stdMin, flightDate := parseSTD(stdStr)
		if stdMin == 0 {
			log.WithFields(logrus.Fields{"flight": flightNo, "std": stdStr}).Warn("unparseable STD, row skipped")
			continue
		}

		class, _ := timing.ClassOf(acType)
		tm := timing.DeriveFromSTD(acType, stdMin)

		flights = append(flights, model.Flight{
			ID:           util.UID(),
			FlightNo:     flightNo,
			Route:        origin + "-" + dest,
			Origin:       origin,
			Dest:         dest,
			ACType:       acType,
			Class:        class,
			FlightDate:   flightDate,
			STDMin:       stdMin,
			KitchenOut:   tm.KitchenOut,
			ServiceStart: tm.ServiceStart,
			ServiceEnd:   tm.ServiceEnd,
			UnloadEnd:    tm.UnloadEnd,
		})
	}

	log.WithField("flights", len(flights)).Info("flights feed parsed")
	return flights, nil
}

// ParseDrivers reads the semicolon-delimited DRIVER_ID;FULL_NAME feed.
func ParseDrivers(data []byte) ([]model.Driver, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return []model.Driver{}, nil
	}

	drivers := []model.Driver{}
	for _, line := range lines[1:] {
		parts := strings.Split(line, ";")
		if len(parts) < 2 {
			continue
		}
		id := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		if id == "" || name == "" {
			continue
		}
		drivers = append(drivers, model.Driver{ID: id, FullName: name})
	}

	log.WithField("drivers", len(drivers)).Info("drivers feed parsed")
	return drivers, nil
}

// ParseShifts reads the SHIFT_START;SHIFT_END feed of HH:MM windows.
func ParseShifts(data []byte) ([]model.Shift, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return []model.Shift{}, nil
	}

	header := strings.Split(strings.ToUpper(lines[0]), ";")
	iStart, iEnd := 0, 1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "SHIFT_START":
			iStart = i
		case "SHIFT_END":
			iEnd = i
		}
	}

	shifts := []model.Shift{}
	for _, line := range lines[1:] {
		parts := strings.Split(line, ";")
		if len(parts) <= iStart || len(parts) <= iEnd {
			continue
		}
		start := strings.TrimSpace(parts[iStart])
		end := strings.TrimSpace(parts[iEnd])
		if util.ToMin(start) == 0 && start != "00:00" {
			log.WithField("row", line).Warn("unparseable shift row skipped")
			continue
		}
		shifts = append(shifts, model.Shift{Start: start, End: end})
	}

	log.WithField("shifts", len(shifts)).Info("shifts feed parsed")
	return shifts, nil
}

// ParseAutolifts reads the roster of vehicle numbers, one per line after
// the header.
func ParseAutolifts(data []byte) ([]model.Autolift, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return []model.Autolift{}, nil
	}

	lifts := []model.Autolift{}
	for _, line := range lines[1:] {
		number := strings.TrimSpace(strings.Split(line, ";")[0])
		if number == "" {
			continue
		}
		lifts = append(lifts, model.Autolift{ID: "AL" + number, Number: number})
	}

	log.WithField("autolifts", len(lifts)).Info("autolift roster parsed")
	return lifts, nil
}
