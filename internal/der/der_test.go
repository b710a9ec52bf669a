package der

import "testing"

func TestEncodeLengthShortForm(t *testing.T) {
	tests := []struct {
		length int
		want   []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
	}
	for _, tt := range tests {
		got := encodeLength(tt.length)
		if string(got) != string(tt.want) {
			t.Errorf("encodeLength(%d) = %x, want %x", tt.length, got, tt.want)
		}
	}
}

func TestEncodeLengthLongForm(t *testing.T) {
	tests := []struct {
		length int
		want   []byte
	}{
		{128, []byte{0x81, 0x80}},
		{255, []byte{0x81, 0xff}},
		{256, []byte{0x82, 0x01, 0x00}},
		{65536, []byte{0x83, 0x01, 0x00, 0x00}},
	}
	for _, tt := range tests {
		got := encodeLength(tt.length)
		if string(got) != string(tt.want) {
			t.Errorf("encodeLength(%d) = %x, want %x", tt.length, got, tt.want)
		}
	}
}

func TestIntegerPadsHighBit(t *testing.T) {
	got := Integer([]byte{0xff})
	want := []byte{0x02, 0x02, 0x00, 0xff}
	if string(got) != string(want) {
		t.Errorf("Integer(0xff) = %x, want %x", got, want)
	}
}

func TestIntegerNoPadNeeded(t *testing.T) {
	got := Integer([]byte{0x7f})
	want := []byte{0x02, 0x01, 0x7f}
	if string(got) != string(want) {
		t.Errorf("Integer(0x7f) = %x, want %x", got, want)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	inner := OctetString([]byte("hi"))
	seq := Sequence(inner)
	content, err := ReadSequence(seq)
	if err != nil {
		t.Fatalf("ReadSequence: %v", err)
	}
	if string(content) != string(inner) {
		t.Errorf("content = %x, want %x", content, inner)
	}
}

func TestOIDRoundTrip(t *testing.T) {
	encoded := OID(1, 2, 840, 113549, 1, 7, 2)
	got, err := ReadOID(encoded)
	if err != nil {
		t.Fatalf("ReadOID: %v", err)
	}
	want := "1.2.840.113549.1.7.2"
	if got != want {
		t.Errorf("ReadOID = %q, want %q", got, want)
	}
}

func TestParseLengthRejectsOversizedLongForm(t *testing.T) {
	// 0x85 declares 5 length bytes, which this codec refuses.
	buf := []byte{0x85, 0x01, 0x02, 0x03, 0x04, 0x05}
	if _, _, err := ParseLength(buf, 0); err == nil {
		t.Fatal("expected error for 5-byte long-form length")
	}
}

func TestParseLengthClampsToBuffer(t *testing.T) {
	buf := []byte{0x82, 0xff, 0xff} // declares 65535 bytes of content, buffer has none
	if _, _, err := ParseLength(buf, 0); err == nil {
		t.Fatal("expected error for length exceeding buffer")
	}
}

func TestSkipTLV(t *testing.T) {
	buf := append(Sequence(OctetString([]byte("abc"))), 0xAA)
	end, err := SkipTLV(buf, 0)
	if err != nil {
		t.Fatalf("SkipTLV: %v", err)
	}
	if end != len(buf)-1 {
		t.Errorf("SkipTLV end = %d, want %d", end, len(buf)-1)
	}
	if buf[end] != 0xAA {
		t.Errorf("expected trailing marker byte at end offset")
	}
}

func TestContextTagImplicit(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03}
	got := ContextTag(0, true, body)
	want := append([]byte{0xA0, 0x03}, body...)
	if string(got) != string(want) {
		t.Errorf("ContextTag = %x, want %x", got, want)
	}
}
