package images

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// Checksum generates a deterministic digest of an image's header and samples.
//
// Arguments:
//   - img: The image to compute the checksum for.
//
// Returns:
//   - A hex-encoded MD5 checksum string, or "empty" for an invalid image.
//
// Example:
//
// ```go
//
//	before := Checksum(img)
//	kernels.Median(img, 4, kernels.Options{})
//	fmt.Println(before == Checksum(img)) // true, even sizes are a no-op
//
// ```
func Checksum(img *Image) string {
	if !img.IsValid() {
		return "empty"
	}

	hash := md5.New()
	var buf [8]byte
	for _, v := range []int{img.Width, img.Height, img.MaxValue} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		hash.Write(buf[:])
	}
	for _, v := range img.pixels {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		hash.Write(buf[:])
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
