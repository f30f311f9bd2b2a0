package media

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestDurationVersion0(t *testing.T) {
	data := buildTestMP4(t, buildMvhdVersion0Payload(1000, 45*1000))

	got, err := Duration(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 45*time.Second {
		t.Fatalf("expected 45s, got %v", got)
	}
}

func TestDurationVersion1(t *testing.T) {
	data := buildTestMP4(t, buildMvhdVersion1Payload(1000, 90*1000))

	got, err := Duration(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}

func TestDurationRestoresOffset(t *testing.T) {
	data := buildTestMP4(t, buildMvhdVersion0Payload(1000, 45*1000))
	reader := bytes.NewReader(data)

	if _, err := Duration(reader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The stream must still be fully consumable after probing.
	rest := make([]byte, len(data))
	n, _ := reader.Read(rest)
	if n != len(data) {
		t.Fatalf("expected %d readable bytes after probe, got %d", len(data), n)
	}
}

func TestDurationIgnoresEmptyBoxes(t *testing.T) {
	mvhd := buildMvhdVersion0Payload(1000, 45*1000)
	moovPayload := append(buildBox("free", nil), buildBox("mvhd", mvhd)...)
	data := append(buildBox("ftyp", []byte("isom")), buildBox("moov", moovPayload)...)

	got, err := Duration(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 45*time.Second {
		t.Fatalf("expected 45s, got %v", got)
	}
}

func TestDurationErrors(t *testing.T) {
	t.Run("no moov", func(t *testing.T) {
		data := buildBox("ftyp", []byte("isom"))
		if _, err := Duration(bytes.NewReader(data)); err == nil {
			t.Fatal("expected error when moov box is missing")
		}
	})

	t.Run("no mvhd", func(t *testing.T) {
		moovPayload := buildBox("trak", []byte("dummy"))
		data := append(buildBox("ftyp", []byte("isom")), buildBox("moov", moovPayload)...)
		if _, err := Duration(bytes.NewReader(data)); err == nil {
			t.Fatal("expected error when mvhd box is missing")
		}
	})

	t.Run("zero timescale", func(t *testing.T) {
		data := buildTestMP4(t, buildMvhdVersion0Payload(0, 100))
		if _, err := Duration(bytes.NewReader(data)); err == nil {
			t.Fatal("expected error when timescale is zero")
		}
	})

	t.Run("not a container", func(t *testing.T) {
		if _, err := Duration(bytes.NewReader([]byte("plain video bytes"))); err == nil {
			t.Fatal("expected error for a non-MP4 stream")
		}
	})
}

func buildTestMP4(t *testing.T, mvhdPayload []byte) []byte {
	t.Helper()
	moov := buildBox("moov", buildBox("mvhd", mvhdPayload))
	ftyp := buildBox("ftyp", []byte("isom"))
	return append(ftyp, moov...)
}

func buildBox(boxType string, payload []byte) []byte {
	if len(boxType) != 4 {
		panic("box type must be 4 characters")
	}
	size := uint32(len(payload) + 8)
	buf := make([]byte, 0, size)
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, size)
	buf = append(buf, header...)
	buf = append(buf, boxType...)
	return append(buf, payload...)
}

func buildMvhdVersion0Payload(timescale, duration uint32) []byte {
	payload := make([]byte, 4+16)
	payload[0] = 0 // version
	binary.BigEndian.PutUint32(payload[12:16], timescale)
	binary.BigEndian.PutUint32(payload[16:20], duration)
	return payload
}

func buildMvhdVersion1Payload(timescale uint32, duration uint64) []byte {
	payload := make([]byte, 4+28)
	payload[0] = 1 // version
	binary.BigEndian.PutUint32(payload[20:24], timescale)
	binary.BigEndian.PutUint64(payload[24:32], duration)
	return payload
}
