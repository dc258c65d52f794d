package display

import "strconv"

// ConversionInfo holds the figures shown after a successful conversion.
type ConversionInfo struct {
	InputPath  string
	OutputPath string
	InputLines int
	Records    int
	Pages      int

	// Repair figures
	MergedLines  int
	ClampedLines int
	Placeholders int

	OutputBytes int
}

// Summary prints the post-conversion stats block.
func (info ConversionInfo) Summary() {
	Header("Conversion complete")
	KeyValue("Input", info.InputPath, white)
	KeyValue("Output", info.OutputPath, bold+brightGreen)
	KeyValue("Lines", info.InputLines, white)
	KeyValue("Records", info.Records, white)
	KeyValue("Pages", info.Pages, white)
	if info.MergedLines > 0 {
		KeyValue("Merged lines", info.MergedLines, yellow)
	}
	if info.ClampedLines > 0 {
		KeyValue("Clamped levels", info.ClampedLines, yellow)
	}
	if info.Placeholders > 0 {
		KeyValue("Placeholders", info.Placeholders, yellow)
	}
	KeyValue("Size", byteSize(info.OutputBytes), white)
}

func byteSize(n int) string {
	switch {
	case n >= 1<<20:
		return strconv.Itoa(n>>20) + "." + strconv.Itoa((n>>10%1024)*10/1024) + " MB"
	case n >= 1<<10:
		return strconv.Itoa(n>>10) + " KB"
	default:
		return strconv.Itoa(n) + " B"
	}
}
