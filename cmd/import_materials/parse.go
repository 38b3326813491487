package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

// row una línea de la planilla ya interpretada.
type row struct {
	line  int
	input inventory.CreateMaterialInput
}

// Encabezados aceptados por columna (portugués, español, inglés).
var headerAliases = map[string][]string{
	"name":       {"nome", "nombre", "name", "material"},
	"type":       {"tipo", "type"},
	"location":   {"local", "localizacao", "localização", "ubicacion", "ubicación", "location"},
	"requester":  {"solicitante", "requester"},
	"entry_date": {"data", "data de entrada", "fecha", "entry_date"},
	"notes":      {"observacoes", "observações", "notas", "notes"},
	"quantity":   {"quantidade", "cantidad", "quantity", "qtd"},
	"image_url":  {"imagem", "imagen", "image_url"},
}

// decodeReader convierte la entrada a UTF-8 según encoding ("latin1" o "utf8").
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "utf8", "utf-8", "":
		return r, nil
	}
	return nil, fmt.Errorf("encoding %q no soportado (latin1 | utf8)", encoding)
}

// parseRows lee la planilla: primera fila encabezado, separador ';' o ',' detectado en el encabezado.
func parseRows(r io.Reader, actor string) ([]row, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	firstLine := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}
	comma := ','
	if bytes.Count(firstLine, []byte{';'}) > bytes.Count(firstLine, []byte{','}) {
		comma = ';'
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := mapHeader(header)
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("encabezado sin columna de nombre")
	}
	if _, ok := cols["type"]; !ok {
		return nil, fmt.Errorf("encabezado sin columna de tipo")
	}

	var rows []row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(key string) string {
			i, ok := cols[key]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("name") == "" && get("type") == "" {
			continue
		}

		in := inventory.CreateMaterialInput{
			Name:      get("name"),
			Type:      get("type"),
			Location:  get("location"),
			Requester: get("requester"),
			Notes:     get("notes"),
			ImageURL:  get("image_url"),
			Actor:     actor,
		}
		if s := get("quantity"); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: cantidad %q inválida", line, s)
			}
			in.InitialAmount = n
		}
		if s := get("entry_date"); s != "" {
			d, err := parseDate(s)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			in.EntryDate = &d
		}
		rows = append(rows, row{line: line, input: in})
	}
	return rows, nil
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for key, aliases := range headerAliases {
			for _, a := range aliases {
				if h == a {
					if _, seen := cols[key]; !seen {
						cols[key] = i
					}
				}
			}
		}
	}
	return cols
}

// parseDate acepta AAAA-MM-DD y DD/MM/AAAA.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{inventory.DateLayout, "02/01/2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha %q inválida (AAAA-MM-DD o DD/MM/AAAA)", s)
}
