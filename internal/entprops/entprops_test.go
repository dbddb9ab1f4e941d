package entprops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDecls = "off_health CBasePlayer/m_iHealth\n" +
	"off_flags CBasePlayer/m_fFlags\n" +
	"off_velocity CBasePlayer/localdata/m_vecVelocity\n"

func TestParseDecls(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte(sampleDecls))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "off_health", rows[0].Var)
	assert.Equal(t, "CBasePlayer/m_iHealth", rows[0].Path)
}

func TestBuildTwoLevelTree(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte(sampleDecls))
	require.NoError(t, err)
	tree, err := Build(rows)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"off_health", "off_flags", "off_velocity"}, tree.Decls)

	class, ok := tree.Classes.Lookup("CBasePlayer")
	require.True(t, ok)

	health, ok := class.Props.Lookup("m_iHealth")
	require.True(t, ok)
	assert.True(t, health.HasVar)
	assert.Equal(t, "off_health", health.VarName)

	localdata, ok := class.Props.Lookup("localdata")
	require.True(t, ok)
	assert.False(t, localdata.HasVar)
	vel, ok := localdata.Children.Lookup("m_vecVelocity")
	require.True(t, ok)
	assert.Equal(t, "off_velocity", vel.VarName)
}

func TestNoSlashRejected(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte("off_x CBasePlayer\n"))
	require.NoError(t, err)
	_, err = Build(rows)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe, ErrNoSlash)
}

func TestDuplicateVariableRejected(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte("off_x A/b\noff_x A/c\n"))
	require.NoError(t, err)
	_, err = Build(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate variable")
}

func TestDuplicatePropertyPathRejected(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte("off_a A/b\noff_c A/b\n"))
	require.NoError(t, err)
	_, err = Build(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate property name")
}

func TestIndentationRejected(t *testing.T) {
	_, err := parseFile("ent.txt", []byte("off_x A/b\n  off_y A/c\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe, ErrIndentation)
}

func TestMissingEOLNewlineRejected(t *testing.T) {
	_, err := parseFile("ent.txt", []byte("off_x A/b"))
	require.Error(t, err)
	assert.True(t, func() bool {
		pe, ok := err.(*ParseError)
		return ok && pe.Err == ErrUnterminatedEOF
	}())
}

func TestGenerateCompiles(t *testing.T) {
	rows, err := parseFile("ent.txt", []byte(sampleDecls))
	require.NoError(t, err)
	tree, err := Build(rows)
	require.NoError(t, err)

	out, err := Generate(tree)
	require.NoError(t, err)
	src := string(out)
	assert.Contains(t, src, "var off_health int")
	assert.Contains(t, src, "func hasOffHealth() bool")
	assert.Contains(t, src, `Name: "CBasePlayer"`)
	assert.Contains(t, src, "VarPtr: &off_health")
}
