package util

import (
	"crypto/sha256"
	"strconv"
)

// HashSample digests a feature vector together with its label, used to
// deduplicate repeated submissions of the same labeled point.
func HashSample(vec []float64, label float64) [32]byte {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)
	defer buffer.Reset()
	for i := range vec {
		buffer.WriteString(strconv.FormatFloat(vec[i], 'g', 16, 64))
	}
	buffer.WriteString(strconv.FormatFloat(label, 'g', 16, 64))
	return sha256.Sum256(buffer.Bytes())
}
