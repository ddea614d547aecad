package test

import "math/rand/v2"

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a random alphanumeric string of length within
// [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)

	buf := make([]byte, minLen+rand.IntN(maxLen-minLen+1))
	for i := range buf {
		buf[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(buf)
}

// RandomEmail returns a unique-looking lower case address on domain.
func RandomEmail(domain string) string {
	local := []byte(RandomASCIIString(6, 12))
	for i, c := range local {
		if c >= 'A' && c <= 'Z' {
			local[i] = c + 'a' - 'A'
		}
	}
	return string(local) + "@" + domain
}
