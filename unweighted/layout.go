package unweighted

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"
)

// ErrInvalidLayout is returned when encoded bytes do not describe a graph.
var ErrInvalidLayout = errors.New("invalid graph layout")

const headerSize = 8

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type header struct {
	EndOfNodes uint32
	EndOfEdges uint32
}

func nodeSize[N any]() (int, error) {
	var zero N
	size := binary.Size(zero)
	if size <= 0 {
		return 0, fmt.Errorf("%w: node type %T has no fixed size", ErrInvalidLayout, zero)
	}
	return size, nil
}

// WriteTo encodes g in the binary layout.
func (g *Graph[N]) WriteTo(w io.Writer) (int64, error) {
	size, err := nodeSize[N]()
	if err != nil {
		return 0, err
	}
	edges := make([]Edge, 0, g.count)
	for e := range g.Edges() {
		edges = append(edges, e)
	}

	endOfNodes := uint64(headerSize) + uint64(size)*uint64(len(g.nodes))
	endOfEdges := endOfNodes + uint64(binary.Size(Edge{}))*uint64(len(edges))
	if endOfEdges > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes exceed the 32-bit offsets", ErrInvalidLayout, endOfEdges)
	}

	cw := &countingWriter{w: w}
	h := header{EndOfNodes: uint32(endOfNodes), EndOfEdges: uint32(endOfEdges)}
	if err := binary.Write(cw, binary.LittleEndian, h); err != nil {
		return cw.n, err
	}
	if len(g.nodes) > 0 {
		if err := binary.Write(cw, binary.LittleEndian, g.nodes); err != nil {
			return cw.n, err
		}
	}
	if len(edges) > 0 {
		if err := binary.Write(cw, binary.LittleEndian, edges); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// ReadFrom replaces the contents of g with a graph decoded from r. g.Directed
// decides how the edges are interpreted.
func (g *Graph[N]) ReadFrom(r io.Reader) (int64, error) {
	size, err := nodeSize[N]()
	if err != nil {
		return 0, err
	}
	cr := &countingReader{r: r}

	var h header
	if err := binary.Read(cr, binary.LittleEndian, &h); err != nil {
		return cr.n, fmt.Errorf("%w: reading header: %w", ErrInvalidLayout, err)
	}
	edgeSize := uint32(binary.Size(Edge{}))
	switch {
	case h.EndOfNodes < headerSize,
		h.EndOfEdges < h.EndOfNodes,
		(h.EndOfNodes-headerSize)%uint32(size) != 0,
		(h.EndOfEdges-h.EndOfNodes)%edgeSize != 0:
		return cr.n, fmt.Errorf("%w: offsets %d/%d", ErrInvalidLayout, h.EndOfNodes, h.EndOfEdges)
	}

	nodes, err := readElements[N](cr, (h.EndOfNodes-headerSize)/uint32(size))
	if err != nil {
		return cr.n, fmt.Errorf("%w: reading nodes: %w", ErrInvalidLayout, err)
	}
	edges, err := readElements[Edge](cr, (h.EndOfEdges-h.EndOfNodes)/edgeSize)
	if err != nil {
		return cr.n, fmt.Errorf("%w: reading edges: %w", ErrInvalidLayout, err)
	}

	g.nodes = nodes
	g.edges = btree.NewBTreeG(edgeLess)
	g.count = 0
	for _, e := range edges {
		if !g.AddEdge(e.From, e.To) {
			return cr.n, fmt.Errorf("%w: edge %d->%d", ErrInvalidLayout, e.From, e.To)
		}
	}
	return cr.n, nil
}

// readChunk caps how many elements readElements decodes per read.
const readChunk = 4096

// readElements decodes n fixed-size values from r. The result grows one chunk
// at a time, so its size tracks the bytes actually read rather than n.
func readElements[T any](r io.Reader, n uint32) ([]T, error) {
	out := make([]T, 0, min(n, readChunk))
	buf := make([]T, min(n, readChunk))
	for remaining := n; remaining > 0; {
		part := buf[:min(remaining, readChunk)]
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, err
		}
		out = append(out, part...)
		remaining -= uint32(len(part))
	}
	return out, nil
}

// Save writes g to path, zstd-compressed when compress is set or the path
// ends in ".zst".
func Save[N any](path string, g *Graph[N], compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var enc *zstd.Encoder
	if compress || strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(bw)
		if err != nil {
			return err
		}
		w = enc
	}
	n, err := g.WriteTo(w)
	if err != nil {
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}
	log.Debug().Msgf("Saved graph with %d nodes and %d edges to %s (%d bytes before framing)",
		g.NodeCount(), g.EdgeCount(), path, n)
	return bw.Flush()
}

// Load reads a graph written by Save. zstd framing is detected from the
// stream itself.
func Load[N any](path string, directed bool) (*Graph[N], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	g := New[N](directed)
	if _, err := g.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
