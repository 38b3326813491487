package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseRows_PuntoYComaLatin1(t *testing.T) {
	src := "Nome;Tipo;Local;Quantidade;Data de entrada\n" +
		"Martelo Grande;Ferramenta Manual;Prateleira 3;10;10/03/2025\n" +
		";;;;\n" +
		"Cimento;Construção;Pátio;;2025-04-01\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	r, err := decodeReader(strings.NewReader(latin1), "latin1")
	require.NoError(t, err)
	rows, err := parseRows(r, "importacao")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Martelo Grande", rows[0].input.Name)
	assert.Equal(t, int64(10), rows[0].input.InitialAmount)
	assert.Equal(t, "2025-03-10", rows[0].input.EntryDate.Format("2006-01-02"))
	assert.Equal(t, "importacao", rows[0].input.Actor)

	assert.Equal(t, "Construção", rows[1].input.Type)
	assert.Equal(t, "Pátio", rows[1].input.Location)
	assert.Zero(t, rows[1].input.InitialAmount)
	assert.Equal(t, 4, rows[1].line)
}

func TestParseRows_ComaUTF8(t *testing.T) {
	src := "name,type,quantity\nLuva,EPI,20\n"
	rows, err := parseRows(strings.NewReader(src), "ana")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "EPI", rows[0].input.Type)
	assert.Equal(t, int64(20), rows[0].input.InitialAmount)
}

func TestParseRows_Errores(t *testing.T) {
	_, err := parseRows(strings.NewReader("nome;local\nX;Y\n"), "a")
	assert.Error(t, err, "sin columna tipo")

	_, err = parseRows(strings.NewReader("nome;tipo;quantidade\nX;Y;2,5\n"), "a")
	assert.Error(t, err, "cantidad no entera")

	_, err = parseRows(strings.NewReader("nome;tipo;data\nX;Y;31-12-2025\n"), "a")
	assert.Error(t, err, "fecha inválida")

	_, err = decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
