package cradle

import (
	"testing"
)

// Benchmark registration.
func BenchmarkRegister_Value(b *testing.B) {
	c := New()
	for i := 0; i < b.N; i++ {
		_ = c.Register("value", Value(i))
	}
}

func BenchmarkRegister_Factory(b *testing.B) {
	c := New()
	for i := 0; i < b.N; i++ {
		_ = c.Register("config", func() *Config { return &Config{} })
	}
}

// Benchmark resolution.
func BenchmarkGet_Cached(b *testing.B) {
	c := New()
	_ = c.Register("value", Value(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get("value")
	}
}

func BenchmarkMake_Singleton(b *testing.B) {
	c := New()
	_ = c.Declare(NewDatabase)
	_ = c.Singleton(TypeKey[*Database](), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Make(TypeKey[*Database]())
	}
}

func BenchmarkMake_Autowired(b *testing.B) {
	c := New()
	_ = c.Declare(NewRepository)
	_ = c.Declare(NewDatabase)

	key := TypeKey[*Repository]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Make(key)
	}
}

func BenchmarkMake_NamedArgs(b *testing.B) {
	c := New()
	_ = c.Declare(NewCounter, Arg("start"))

	key := TypeKey[*Counter]()
	args := Named("start", 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Make(key, args)
	}
}

func BenchmarkMake_AliasChain(b *testing.B) {
	c := New()
	_ = c.Register("end", Value(1))
	_ = c.Register("mid", Alias("end"))
	_ = c.Register("start", Alias("mid"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Make("start")
	}
}

func BenchmarkCall_Fn(b *testing.B) {
	c := New()
	fn := Fn(func(x, y int) int { return x + y }, Arg("x"), Arg("y", DefaultValue(5)))
	args := Named("x", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Call(fn, args)
	}
}

func BenchmarkMake_Parallel(b *testing.B) {
	c := New()
	_ = c.Declare(NewDatabase)
	_ = c.Singleton(TypeKey[*Database](), nil)

	key := TypeKey[*Database]()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = c.Make(key)
		}
	})
}
