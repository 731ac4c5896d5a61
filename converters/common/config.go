package common

// ConversionConfig stores options for reading a source.
type ConversionConfig struct {
	Delimiter   rune   // Delimiter used for CSV/text parsing, detected when zero
	Sheet       string // Excel sheet to read, the active sheet when empty
	HeaderRows  int    // Rows before the first data row
	DateColumns []int  // Zero-based columns holding dates
	EntryName   string // Entry to read inside a zip archive, first recognized when empty
}

// DefaultConversionConfig matches the Mega-Sena results layout: one header
// row, draw date in the second column.
func DefaultConversionConfig() *ConversionConfig {
	return &ConversionConfig{
		HeaderRows:  1,
		DateColumns: []int{1},
	}
}

// IsDateColumn reports whether col holds dates.
func (c *ConversionConfig) IsDateColumn(col int) bool {
	for _, d := range c.DateColumns {
		if d == col {
			return true
		}
	}
	return false
}

// OrDefault returns c, or the default config when c is nil.
func (c *ConversionConfig) OrDefault() *ConversionConfig {
	if c == nil {
		return DefaultConversionConfig()
	}
	return c
}
