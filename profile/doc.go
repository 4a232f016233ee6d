// Package profile provides optional runtime profiling for the vscript
// command.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time using the "pprof" build tag. Built without it, [Profiler.Start] returns
// a no-op and [Modes] is empty.
//
//	go build -tags pprof .
//	./vscript --pprof-mode cpu --pprof-dir ./profiles 'sqrt(2) * 3'
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Profiles are written to the configured directory
// with names matching the mode (cpu.pprof, mem.pprof) and analyzed with
// go tool pprof:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Programmatic use:
//
//	ctrl := profile.New(profile.WithMode("cpu"), profile.WithPath(dir)).Start()
//	defer ctrl.Stop()
//
// The pprof build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux] for hosts that serve it.
package profile
