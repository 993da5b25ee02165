package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FullMaterial(t *testing.T) {
	msgs := Build("int main(void) { return 0; }", "0000000000000000 <main>:")

	require.Len(t, msgs, 4)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, RoleUser, msgs[2].Role)
	assert.Equal(t, RoleAssistant, msgs[3].Role)

	assert.Equal(t, "int main(void) { return 0; }", msgs[1].Content)
	assert.Equal(t, "0000000000000000 <main>:", msgs[2].Content)
	assert.Equal(t, primer, msgs[3].Content)
}

func TestBuild_InstructionContent(t *testing.T) {
	msgs := Build("int x;", "")
	got := msgs[0].Content

	assert.Contains(t, got, "security expert")
	assert.Contains(t, got, "Plan the review privately")
	assert.Contains(t, got, "memory-safety")
	assert.Contains(t, got, "undefined behavior")
	assert.Contains(t, got, "injection")
	assert.Contains(t, got, "concurrency")
	assert.Contains(t, got, "severity with justification")
	assert.Contains(t, got, "root cause")
	assert.Contains(t, got, "recommended fix")
	assert.Contains(t, got, "state that explicitly")
	assert.Contains(t, got, "hardening advice")
}

func TestBuild_CodeOnly(t *testing.T) {
	msgs := Build("int x;", "")

	require.Len(t, msgs, 3)
	assert.Equal(t, "int x;", msgs[1].Content)
	assert.Equal(t, primer, msgs[2].Content)
}

func TestBuild_DisassemblyOnly(t *testing.T) {
	msgs := Build("", "0: c3 ret")

	require.Len(t, msgs, 3)
	assert.Equal(t, "0: c3 ret", msgs[1].Content)
	assert.Equal(t, primer, msgs[2].Content)
}

func TestBuild_NoMaterial(t *testing.T) {
	msgs := Build("", "")

	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, primer, msgs[1].Content)
}
