// Package clements programs rectangular meshes of Mach–Zehnder
// interferometers from unitary matrices.
//
// 🚀 What is inside?
//
//	• mesh    — Clements decomposition, reconstruction, drive-order flattening
//	• units   — amplitude ↔ phase ↔ voltage ↔ DAC level ↔ bytes
//	• drive   — encoder from grids and data vectors to DAC byte streams
//	• config  — YAML / CLEMENTS_* environment configuration
//
// The command cmd/clementsctl wraps the above for operators.
//
// ⚙️ Usage:
//
//	u, _ := mesh.RandomUnitary(4, mesh.NewRand(1))
//	g, _ := mesh.Decompose(u)
//	enc, _ := drive.NewEncoder(units.DefaultDevice())
//	prog, _ := enc.EncodeGrid(g)
//	fmt.Println(prog.Bytes)
package clements
