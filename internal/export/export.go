// Package export renders extinguisher records as the semicolon separated CSV
// file technicians open in spreadsheet software.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erazemk/gestextintor/internal/model"
)

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("no records to export")

const (
	bom       = "\ufeff"
	separator = ";"
	none      = "Nenhum"
)

// Header is the first line of every export. It is written unquoted.
var Header = []string{
	"Código",
	"Tipo",
	"Capacidade",
	"Localização",
	"Equipamento Alocado",
	"Última Manutenção",
	"Data Validade",
	"Estado",
}

// Write writes records to w. Nothing is written for an empty list.
func Write(w io.Writer, records []model.Extinguisher) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	bw.WriteString(strings.Join(Header, separator))
	for _, e := range records {
		bw.WriteString("\n")
		bw.WriteString(row(e))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func row(e model.Extinguisher) string {
	equipment := e.AssignedEquipment
	if equipment == "" {
		equipment = none
	}
	fields := []string{
		e.Code,
		string(e.Type),
		e.Capacity,
		e.Location,
		equipment,
		e.LastMaintenance,
		e.ExpiryDate,
		string(e.Status),
	}
	for i, f := range fields {
		fields[i] = quote(f)
	}
	return strings.Join(fields, separator)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Filename returns the download name of an export made at now. The date is
// the UTC calendar day.
func Filename(now time.Time) string {
	return "exportacao_extintores_" + now.UTC().Format(model.DateLayout) + ".csv"
}
