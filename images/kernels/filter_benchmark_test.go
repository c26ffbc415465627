package kernels

import "testing"

func benchmarkFilter(b *testing.B, kind Kind, size int, opt Options) {
	src := randomImage(640, 640, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		img := src.Clone()
		_ = Apply(img, kind, size, opt)
	}
}

func BenchmarkMedian_640_k3(b *testing.B) {
	benchmarkFilter(b, KindMedian, 3, Options{})
}

func BenchmarkMedian_640_k7_Parallel(b *testing.B) {
	benchmarkFilter(b, KindMedian, 7, Options{Parallel: true, Pool: &Pool{}})
}

func BenchmarkGaussian_640_k3(b *testing.B) {
	benchmarkFilter(b, KindGaussian, 3, Options{})
}

func BenchmarkGaussian_640_k3_Parallel(b *testing.B) {
	benchmarkFilter(b, KindGaussian, 3, Options{Parallel: true, Pool: &Pool{}})
}
