package ring

type testParameter struct {
	N int
	Q uint64
}

var testParameters = []testParameter{
	// NTT-friendly prime, 2^17 | q-1
	{N: 1 << 10, Q: 0x3ee0001},
	// prime but not NTT-friendly for this degree
	{N: 1 << 10, Q: 1000000007},
	// small prime
	{N: 1 << 4, Q: 17},
	// power of two modulus
	{N: 1 << 6, Q: 1 << 32},
	// 61-bit NTT-friendly prime
	{N: 1 << 8, Q: 0x1fffffffffe00001},
}
