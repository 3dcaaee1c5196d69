package layout

// Checksum computes the console's additive rotate-left checksum over data.
// Each step adds the next byte to the running sum, then rotates the sum
// left by one bit. Game headers are checksummed with their checksum field
// zeroed; save records checksum their payload bytes only.
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum = Rotl1(sum + uint32(b))
	}
	return sum
}

// Rotl1 rotates v left by one bit.
func Rotl1(v uint32) uint32 {
	return v<<1 | v>>31
}
