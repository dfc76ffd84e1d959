package unweighted_test

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikhermansson/hnav/unweighted"
)

type point struct {
	X, Y int32
}

func collect(g *unweighted.Graph[point]) []unweighted.Edge {
	return slices.Collect(g.Edges())
}

func TestDirectedGraph(t *testing.T) {
	g := unweighted.New[point](true)
	a := g.AddNode(point{0, 0})
	b := g.AddNode(point{1, 0})
	c := g.AddNode(point{0, 1})

	assert.True(t, g.AddEdge(a, b))
	assert.True(t, g.AddEdge(b, c))
	assert.True(t, g.AddEdge(a, c))
	assert.False(t, g.AddEdge(a, b), "duplicate edge")
	assert.False(t, g.AddEdge(a, 7), "unknown endpoint")

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, []uint32{1, 2}, g.Neighbours(a))
	assert.Empty(t, g.Neighbours(c))
	assert.True(t, g.HasEdge(b, c))
	assert.False(t, g.HasEdge(c, b))
	assert.Equal(t, point{1, 0}, g.Node(b))
}

func TestUndirectedGraphStoresEdgesOnce(t *testing.T) {
	g := unweighted.New[point](false)
	for i := int32(0); i < 4; i++ {
		g.AddNode(point{i, i})
	}
	assert.True(t, g.AddEdge(2, 0))
	assert.False(t, g.AddEdge(0, 2), "same edge reversed")
	assert.True(t, g.AddEdge(1, 1))
	assert.True(t, g.AddEdge(3, 1))

	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, []unweighted.Edge{{0, 2}, {1, 1}, {1, 3}}, collect(g))
	assert.Equal(t, []uint32{0}, g.Neighbours(2))
	assert.Equal(t, []uint32{1, 3}, g.Neighbours(1))
}

func TestLayoutHeader(t *testing.T) {
	g := unweighted.New[point](true)
	g.AddNode(point{1, 2})
	g.AddNode(point{3, 4})
	g.AddEdge(1, 0)

	var buf bytes.Buffer
	n, err := g.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	raw := buf.Bytes()
	// 8 header bytes, two 8-byte points, one 8-byte edge.
	require.Len(t, raw, 32)
	assert.Equal(t, uint32(24), binary.LittleEndian.Uint32(raw[0:4]))
	assert.Equal(t, uint32(32), binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, int32(3), int32(binary.LittleEndian.Uint32(raw[16:20])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[24:28]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(raw[28:32]))

	back := unweighted.New[point](true)
	_, err = back.ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.Equal(t, collect(g), collect(back))
}

func TestLayoutEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	_, err := unweighted.New[uint64](false).WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{8, 0, 0, 0, 8, 0, 0, 0}, buf.Bytes())

	back := unweighted.New[uint64](false)
	_, err = back.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Zero(t, back.NodeCount())
	assert.Zero(t, back.EdgeCount())
}

func TestLayoutRejectsCorruptInput(t *testing.T) {
	cases := map[string][]byte{
		"short header":      {1, 2, 3},
		"nodes before head": {4, 0, 0, 0, 4, 0, 0, 0},
		"edges before node": {16, 0, 0, 0, 8, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		"ragged nodes":      {12, 0, 0, 0, 12, 0, 0, 0, 1, 2, 3, 4},
		"truncated":         {16, 0, 0, 0, 24, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		"dangling edge": {16, 0, 0, 0, 24, 0, 0, 0,
			1, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 5, 0, 0, 0},
		"oversized offsets": {0xf8, 0xff, 0xff, 0xff, 0xf8, 0xff, 0xff, 0xff,
			1, 0, 0, 0},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			g := unweighted.New[uint64](true)
			_, err := g.ReadFrom(bytes.NewReader(raw))
			assert.ErrorIs(t, err, unweighted.ErrInvalidLayout)
		})
	}
}

func TestLayoutReadsAcrossChunks(t *testing.T) {
	g := unweighted.New[uint64](true)
	for i := uint64(0); i < 10000; i++ {
		g.AddNode(i)
	}
	for i := uint32(0); i < 9999; i++ {
		require.True(t, g.AddEdge(i, i+1))
	}
	var buf bytes.Buffer
	_, err := g.WriteTo(&buf)
	require.NoError(t, err)

	loaded := unweighted.New[uint64](true)
	_, err = loaded.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), loaded.Nodes())
	assert.Equal(t, 9999, loaded.EdgeCount())
	assert.True(t, loaded.HasEdge(9998, 9999))
}

func TestLayoutRejectsVariableSizeNodes(t *testing.T) {
	g := unweighted.New[[]int32](true)
	g.AddNode([]int32{1})
	_, err := g.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, unweighted.ErrInvalidLayout)
}

func TestSaveLoad(t *testing.T) {
	g := unweighted.New[point](false)
	for i := int32(0); i < 50; i++ {
		g.AddNode(point{i, -i})
	}
	for i := uint32(0); i+1 < 50; i++ {
		g.AddEdge(i, i+1)
	}

	dir := t.TempDir()
	for name, compress := range map[string]bool{"plain.bin": false, "packed.bin": true, "suffix.bin.zst": false} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, unweighted.Save(path, g, compress))

			back, err := unweighted.Load[point](path, false)
			require.NoError(t, err)
			assert.Equal(t, g.Nodes(), back.Nodes())
			assert.Equal(t, 49, back.EdgeCount())
			assert.Equal(t, collect(g), collect(back))
		})
	}
}
