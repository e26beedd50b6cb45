// Package drive turns mesh programs and data vectors into the byte streams a
// DAC bank consumes, and decodes captured levels back into phases and grids.
//
// One Encoder is bound to one units.Device. Every call returns a fresh
// Program; nothing is accumulated between calls.
//
//	enc, _ := drive.NewEncoder(units.DefaultDevice())
//	prog, _ := enc.EncodeGrid(grid)      // mesh channel
//	data, _ := enc.EncodeAmplitudes(xs)  // data channel
//	back, _ := enc.DecodeGrid(prog.Levels, grid.N)
package drive
