// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package icc reads the fixed-size header of ICC color profiles so that
// copied profiles can be described in the run report.
package icc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderSize is the length of the ICC profile header in bytes.
const HeaderSize = 128

const fileSignature = "acsp"

// ErrNotICC is returned when a file does not carry the ICC file signature.
var ErrNotICC = errors.New("not an ICC profile")

// Header holds the descriptive fields of an ICC profile header.
type Header struct {
	Size         uint32 `json:"size" yaml:"size"`
	CMM          string `json:"cmm,omitempty" yaml:"cmm,omitempty"`
	Version      string `json:"version" yaml:"version"`
	DeviceClass  string `json:"device_class" yaml:"device_class"`
	ColorSpace   string `json:"color_space" yaml:"color_space"`
	PCS          string `json:"pcs" yaml:"pcs"`
	Platform     string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty" yaml:"model,omitempty"`
	Creator      string `json:"creator,omitempty" yaml:"creator,omitempty"`
}

// ReadHeader reads the header of the profile at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("opening profile %s: %w", path, err)
	}
	defer f.Close()

	h, err := DecodeHeader(f)
	if err != nil {
		return Header{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return h, nil
}

// DecodeHeader parses the first HeaderSize bytes of r.
func DecodeHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Header{}, ErrNotICC
		}
		return Header{}, err
	}
	if string(raw[36:40]) != fileSignature {
		return Header{}, ErrNotICC
	}

	return Header{
		Size:         binary.BigEndian.Uint32(raw[0:4]),
		CMM:          signature(raw[4:8]),
		Version:      fmt.Sprintf("%d.%d.%d", raw[8], raw[9]>>4, raw[9]&0x0f),
		DeviceClass:  signature(raw[12:16]),
		ColorSpace:   signature(raw[16:20]),
		PCS:          signature(raw[20:24]),
		Platform:     signature(raw[40:44]),
		Manufacturer: signature(raw[48:52]),
		Model:        modelNumber(raw[52:56]),
		Creator:      signature(raw[80:84]),
	}, nil
}

// signature renders a four-byte tag, dropping padding. An all-zero tag is
// reported as empty.
func signature(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// modelNumber renders the device model. Vendors store either a four-character
// tag or a plain number.
func modelNumber(b []byte) string {
	v := binary.BigEndian.Uint32(b)
	if v == 0 {
		return ""
	}
	for _, c := range b {
		if c != 0 && (c < 0x20 || c > 0x7e) {
			return fmt.Sprintf("%d", v)
		}
	}
	return signature(b)
}
