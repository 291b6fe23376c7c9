package node

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "sub_pub_node_42", Name("sub_pub_node", func() string { return "42" }))
	assert.Equal(t, "sub_pub_node", Name("sub_pub_node", nil))
	assert.Equal(t, "sub_pub_node", Name("sub_pub_node", func() string { return "" }))
}

func TestName_DistinctIDs(t *testing.T) {
	i := 0
	next := func() string {
		i++
		return string(rune('a' + i))
	}
	assert.NotEqual(t, Name("n", next), Name("n", next))
}

func TestShutdown(t *testing.T) {
	n := New("n", nil)
	assert.Equal(t, "n", n.Name())
	assert.False(t, n.IsShuttingDown())
	assert.Empty(t, n.Reason())

	n.Shutdown("manual kill")
	assert.True(t, n.IsShuttingDown())
	assert.Equal(t, "manual kill", n.Reason())

	select {
	case <-n.Done():
	default:
		t.Fatal("Done not closed after Shutdown")
	}
}

func TestShutdown_FirstReasonWins(t *testing.T) {
	n := New("n", nil)
	n.Shutdown("signal")
	n.Shutdown("manual kill")
	assert.Equal(t, "signal", n.Reason())
}

func TestShutdown_Concurrent(t *testing.T) {
	n := New("n", nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Shutdown("race")
		}()
	}
	wg.Wait()
	assert.True(t, n.IsShuttingDown())
	assert.Equal(t, "race", n.Reason())
}
