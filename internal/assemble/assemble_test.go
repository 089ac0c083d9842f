package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

func frag(id int32, number, total uint8, payload string) *a2s.Fragment {
	return &a2s.Fragment{ID: id, Number: number, Total: total, Payload: []byte(payload)}
}

func TestAssemblerOutOfOrder(t *testing.T) {
	a := New(a2s.FragmentSource)
	now := time.Now()

	out, done, err := a.Add("10.0.0.1:27015", frag(7, 2, 3, "cc"), now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Nil(t, out)

	_, done, err = a.Add("10.0.0.1:27015", frag(7, 0, 3, "aa"), now)
	require.NoError(t, err)
	assert.False(t, done)

	// Same id from another server is a different response.
	_, done, err = a.Add("10.0.0.2:27015", frag(7, 1, 3, "xx"), now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 2, a.Pending())

	out, done, err = a.Add("10.0.0.1:27015", frag(7, 1, 3, "bb"), now)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []byte("aabbcc"), out)
	assert.Equal(t, 1, a.Pending())
}

func TestAssemblerDuplicateFragment(t *testing.T) {
	a := New(a2s.FragmentGoldSource)
	now := time.Now()

	_, _, err := a.Add("s", frag(1, 0, 2, "a"), now)
	require.NoError(t, err)
	_, done, err := a.Add("s", frag(1, 0, 2, "A"), now)
	require.NoError(t, err)
	assert.False(t, done)

	out, done, err := a.Add("s", frag(1, 1, 2, "b"), now)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []byte("Ab"), out)
}

func TestAssemblerSingleFragment(t *testing.T) {
	a := New(a2s.FragmentSource)

	out, done, err := a.Add("s", frag(3, 0, 1, "only"), time.Now())
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []byte("only"), out)
}

func TestAssemblerRejects(t *testing.T) {
	a := New(a2s.FragmentSource)
	now := time.Now()

	_, _, err := a.Add("s", frag(-5, 1, 3, "z"), now)
	assert.ErrorIs(t, err, ErrCompressed)

	f := frag(5, 0, 3, "z")
	f.Compression = &a2s.Compression{DecompressedSize: 10}
	_, _, err = a.Add("s", f, now)
	assert.ErrorIs(t, err, ErrCompressed)

	_, _, err = a.Add("s", frag(5, 3, 3, "z"), now)
	assert.ErrorIs(t, err, ErrInvalidFragment)

	_, _, err = a.Add("s", frag(5, 0, 0, "z"), now)
	assert.ErrorIs(t, err, ErrInvalidFragment)

	// GoldSource ids carry no compression bit.
	g := New(a2s.FragmentGoldSource)
	_, _, err = g.Add("s", frag(-5, 0, 2, "z"), now)
	assert.NoError(t, err)
}

func TestAssemblerExpire(t *testing.T) {
	a := New(a2s.FragmentSource)
	a.TTL = time.Second
	start := time.Now()

	_, _, err := a.Add("s", frag(1, 0, 2, "a"), start)
	require.NoError(t, err)
	_, _, err = a.Add("s", frag(2, 0, 2, "a"), start.Add(1500*time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, 1, a.Expire(start.Add(2*time.Second)))
	assert.Equal(t, 1, a.Pending())

	// The expired response starts over.
	_, done, err := a.Add("s", frag(1, 1, 2, "b"), start.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, done)
}
