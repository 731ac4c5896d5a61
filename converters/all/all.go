package all

import (
	// Import all the converters so they register themselves
	_ "github.com/darianmavgo/megasena/converters/csv"
	_ "github.com/darianmavgo/megasena/converters/excel"
	_ "github.com/darianmavgo/megasena/converters/html"
	_ "github.com/darianmavgo/megasena/converters/zip"
)
