// Package converters reads draw spreadsheets through drivers registered by
// name, one per source format.
package converters

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/darianmavgo/megasena/converters/common"
)

// ErrUnknownDriver is returned when no spreadsheet driver is registered under
// the requested name.
var ErrUnknownDriver = errors.New("unknown spreadsheet driver")

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]common.Driver)
)

// Register adds a spreadsheet driver under name, normally from the init of
// the format's package (excel, csv, html, zip). A nil driver or a name that
// is already taken panics.
func Register(name string, driver common.Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("converters: spreadsheet driver " + name + " is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("converters: spreadsheet driver " + name + " registered twice")
	}
	drivers[name] = driver
}

// Open starts reading draw rows from source with the named driver. A nil
// config reads the first sheet with one header row.
func Open(driverName string, source io.Reader, config *common.ConversionConfig) (common.RowProvider, error) {
	driversMu.RLock()
	driver, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (is its package imported?)", ErrUnknownDriver, driverName)
	}
	return driver.Open(source, config.OrDefault())
}

// Drivers lists the spreadsheet formats this binary can read, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
