package mapfile

import "github.com/woozymasta/fleet-scenario-tool/internal/bin"

// regionBytes builds a 65-byte record from a header string and tail words.
func regionBytes(header string, tail ...uint16) []byte {
	out := make([]byte, RegionSize)
	copy(out, header)

	words := make([]uint16, TailSize/2)
	copy(words, tail)
	copy(out[HeaderSize:], bin.PutWords(words))

	return out
}

// spanningRegion has an adjacency field that runs from the header into the tail.
func spanningRegion() []byte {
	// 11+1+4+1 = 17 bytes, then 16 uppercase bytes reaching byte 33 without a NUL.
	out := regionBytes("Arabian Sea\x00rpAS\x00GORSMAOMINARBBCD")
	copy(out[HeaderSize:], "EF\x00")
	out[HeaderSize+11] = 0x40 // x
	out[HeaderSize+13] = 0x22 // y
	out[HeaderSize+14] = 0x00 // panel
	out[HeaderSize+15] = 0x10 // width
	return out
}

func stringsSection(strs ...string) []byte {
	var out []byte
	for _, s := range strs {
		out = append(out, s...)
		out = append(out, 0)
	}

	return out
}

func unitFrame(words ...uint16) []byte {
	w := make([]uint16, 16)
	copy(w, words)
	return bin.PutWords(w)
}

// buildMap assembles a map file from regions, pointer entries and pointer data.
func buildMap(regions [][]byte, pointers [PointerCount]PointerEntry, data []byte) []byte {
	out := bin.PutWords([]uint16{uint16(len(regions))})
	for _, r := range regions {
		out = append(out, r...)
	}
	out = append(out, EncodePointerTable(pointers)...)
	return append(out, data...)
}
