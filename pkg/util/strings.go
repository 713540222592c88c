package util

// MaxLogBodySize caps request bodies echoed into operational logs.
const MaxLogBodySize = 512

// TruncateBody shortens data to maxSize bytes, appending "...(truncated)" when
// something was cut. maxSize <= 0 means MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) <= maxSize {
		return data
	}
	return data[:maxSize] + "...(truncated)"
}
