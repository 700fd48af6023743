// Package serialization saves and restores network parameters as
// SafeTensors files.
//
// Layout:
//
//	[8 bytes: header size (uint64 LE)]
//	[header size bytes: JSON header]
//	[tensor data: raw F64 little-endian bytes]
//
// The header maps every tensor name to its dtype, shape [rows, cols] and
// byte range inside the data section. The "__metadata__" entry carries
// string metadata, including the SHA-256 of the data section under
// MetaChecksum, which ReadSafeTensors verifies. The byte ranges must be
// 8-byte aligned, hold exactly rows×cols float64s and tile the data section
// without gaps or overlaps (see ValidateLayout).
//
// Example:
//
//	info := serialization.Info{Epochs: 3, TestAccuracy: report.TestAccuracy}
//	if _, err := serialization.SaveNetwork("digits.safetensors", net, info); err != nil {
//	    log.Fatal(err)
//	}
//
//	info, err := serialization.LoadNetwork("digits.safetensors", net)
package serialization
