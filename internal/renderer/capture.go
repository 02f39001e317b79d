package renderer

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"Pomarin/internal/pipeline"
	"Pomarin/internal/shading"
)

const (
	captureMagic   = 0x474E4850 // "PHNG"
	captureVersion = 1

	maxCaptureSize = 1 << 30
	// five empty length-prefixed blocks plus the index count
	minDrawSize = 6 * 4
)

var ErrCorruptCapture = errors.New("corrupt capture")

// DrawCapture is one draw exactly as it would be uploaded: the encoded
// vertex, instance and material buffers plus the geometry's indices.
type DrawCapture struct {
	Model     string
	Geometry  string
	Vertices  []byte
	Instances []byte
	Material  []byte
	Indices   []uint32
}

// Capture is a snapshot of one frame's buffers, for replay debugging.
type Capture struct {
	Camera []byte
	Light  []byte
	Draws  []DrawCapture
}

func newDrawCapture(b batch, g Geometry, mat shading.MaterialColor) DrawCapture {
	mesh := b.model.Mesh
	return DrawCapture{
		Model:     b.model.Name,
		Geometry:  g.Name,
		Vertices:  pipeline.EncodeVertices(mesh.Vertices),
		Instances: pipeline.EncodeInstances(b.instances),
		Material:  pipeline.EncodeMaterial(mat),
		Indices:   append([]uint32(nil), mesh.GeometryIndices(g)...),
	}
}

// Uniforms decodes the frame's camera and light blocks.
func (c *Capture) Uniforms() (shading.CameraUniform, shading.Light, error) {
	cam, err := pipeline.DecodeCamera(c.Camera)
	if err != nil {
		return cam, shading.Light{}, err
	}
	light, err := pipeline.DecodeLight(c.Light)
	return cam, light, err
}

// Decode unpacks the draw's buffers.
func (d *DrawCapture) Decode() ([]shading.VertexInput, []shading.InstanceInput, shading.MaterialColor, error) {
	vertices, err := pipeline.DecodeVertices(d.Vertices)
	if err != nil {
		return nil, nil, shading.MaterialColor{}, fmt.Errorf("draw %s/%s: %w", d.Model, d.Geometry, err)
	}
	instances, err := pipeline.DecodeInstances(d.Instances)
	if err != nil {
		return nil, nil, shading.MaterialColor{}, fmt.Errorf("draw %s/%s: %w", d.Model, d.Geometry, err)
	}
	mat, err := pipeline.DecodeMaterial(d.Material)
	if err != nil {
		return nil, nil, shading.MaterialColor{}, fmt.Errorf("draw %s/%s: %w", d.Model, d.Geometry, err)
	}
	return vertices, instances, mat, nil
}

// EncodeCapture writes a capture as gzip-compressed little-endian binary
func EncodeCapture(c *Capture) ([]byte, error) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)

	if err := binary.Write(gzWriter, binary.LittleEndian, uint32(captureMagic)); err != nil {
		return nil, err
	}
	if err := binary.Write(gzWriter, binary.LittleEndian, uint32(captureVersion)); err != nil {
		return nil, err
	}

	if err := writeBytes(gzWriter, c.Camera); err != nil {
		return nil, err
	}
	if err := writeBytes(gzWriter, c.Light); err != nil {
		return nil, err
	}

	if err := binary.Write(gzWriter, binary.LittleEndian, int32(len(c.Draws))); err != nil {
		return nil, err
	}
	for _, d := range c.Draws {
		for _, s := range []string{d.Model, d.Geometry} {
			if err := writeBytes(gzWriter, []byte(s)); err != nil {
				return nil, err
			}
		}
		for _, b := range [][]byte{d.Vertices, d.Instances, d.Material} {
			if err := writeBytes(gzWriter, b); err != nil {
				return nil, err
			}
		}
		if err := binary.Write(gzWriter, binary.LittleEndian, int32(len(d.Indices))); err != nil {
			return nil, err
		}
		if err := binary.Write(gzWriter, binary.LittleEndian, d.Indices); err != nil {
			return nil, err
		}
	}

	if err := gzWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCapture reads data written by EncodeCapture. Every length prefix is
// checked against the bytes still unread before anything is allocated.
func DecodeCapture(data []byte) (*Capture, error) {
	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	raw, err := io.ReadAll(io.LimitReader(gzReader, maxCaptureSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress capture: %w", err)
	}
	if len(raw) > maxCaptureSize {
		return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", ErrCorruptCapture, maxCaptureSize)
	}
	r := bytes.NewReader(raw)

	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, truncated(err)
	}
	if magic != captureMagic {
		return nil, fmt.Errorf("invalid capture magic: %x", magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, truncated(err)
	}
	if version != captureVersion {
		return nil, fmt.Errorf("unsupported capture version: %d", version)
	}

	c := &Capture{}
	if c.Camera, err = readBytes(r); err != nil {
		return nil, err
	}
	if c.Light, err = readBytes(r); err != nil {
		return nil, err
	}

	var drawCount int32
	if err := binary.Read(r, binary.LittleEndian, &drawCount); err != nil {
		return nil, truncated(err)
	}
	if drawCount < 0 || int64(drawCount)*minDrawSize > int64(r.Len()) {
		return nil, fmt.Errorf("%w: draw count %d with %d bytes left", ErrCorruptCapture, drawCount, r.Len())
	}
	c.Draws = make([]DrawCapture, drawCount)
	for i := range c.Draws {
		d := &c.Draws[i]
		name, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		geometry, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		d.Model, d.Geometry = string(name), string(geometry)

		for _, dst := range []*[]byte{&d.Vertices, &d.Instances, &d.Material} {
			if *dst, err = readBytes(r); err != nil {
				return nil, err
			}
		}

		var indexCount int32
		if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
			return nil, truncated(err)
		}
		if indexCount < 0 || int64(indexCount)*4 > int64(r.Len()) {
			return nil, fmt.Errorf("%w: index count %d with %d bytes left", ErrCorruptCapture, indexCount, r.Len())
		}
		d.Indices = make([]uint32, indexCount)
		if err := binary.Read(r, binary.LittleEndian, d.Indices); err != nil {
			return nil, truncated(err)
		}
	}

	return c, nil
}

// WriteCapture saves an encoded capture to path.
func WriteCapture(path string, c *Capture) error {
	data, err := EncodeCapture(c)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadCapture(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return DecodeCapture(data)
}

// Helper functions for binary encoding
func writeBytes(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, truncated(err)
	}
	if count < 0 || int(count) > r.Len() {
		return nil, fmt.Errorf("%w: block length %d with %d bytes left", ErrCorruptCapture, count, r.Len())
	}
	data := make([]byte, count)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, truncated(err)
	}
	return data, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated", ErrCorruptCapture)
	}
	return err
}
