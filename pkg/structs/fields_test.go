package structs_test

import (
	"testing"

	"github.com/mdouchement/blinkreg/pkg/structs"
	"github.com/stretchr/testify/assert"
)

type Base struct {
	ID string
}

type account struct {
	Base
	Owner    string
	Lamports uint64
}

func TestProject(t *testing.T) {
	a := &account{Base: Base{ID: "a1"}, Owner: "owner", Lamports: 42}

	p, err := structs.Project(a, "Owner", "Lamports")
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"Owner": "owner", "Lamports": uint64(42)}, p)

	v, err := structs.GetField(a, "ID")
	assert.NoError(t, err)
	assert.Equal(t, "a1", v)

	_, err = structs.Project(a, "Mint")
	assert.Error(t, err)
}
