package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkCompose(b *testing.B) {
	pos := V3(0.3, -0.2, 0.9)
	rot := V3(0.4, 1.2, 0)

	for b.Loop() {
		_ = Compose(pos, rot)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Compose(V3(1, 2, 3), V3(0.5, 0.5, 0))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}
