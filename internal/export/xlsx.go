// Package export renders randomization results for people: an xlsx workbook
// of the history and a plain text summary.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
)

const historySheet = "History"

var historyHeader = []any{
	"Randomized At", "Run", "Map", "Team", "Participant", "Role / Character",
	"Primary", "Secondary", "Assignment Mode", "Team Mode", "Weapon Selection", "Groups Used",
}

// WriteHistory writes one row per participant per randomization, oldest run
// first.
func WriteHistory(w io.Writer, entries []lobby.HistoryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(historySheet, "A1", "L1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, e := range entries {
		for _, line := range rows(e) {
			cell := "A" + strconv.Itoa(row)
			if err := f.SetSheetRow(historySheet, cell, &line); err != nil {
				return fmt.Errorf("history row %d: %w", row, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(historySheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "B", "L", 16); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

func rows(e lobby.HistoryEntry) [][]any {
	r := e.Record
	var out [][]any
	for _, p := range r.Participants() {
		l := r.Weapons[p]
		out = append(out, []any{
			e.At.UTC().Format("2006-01-02 15:04:05"),
			e.ID,
			r.Map,
			"Team " + strconv.Itoa(r.Teams.Contains(p)),
			p,
			r.Roles[p],
			l.Primary,
			l.Secondary,
			string(r.Settings.AssignmentMode),
			string(r.Settings.TeamMode),
			string(r.Settings.WeaponSelectionMode),
			r.Settings.WeaponGroupsUsed,
		})
	}
	return out
}

// ReadHistoryRows returns the data rows of a workbook produced by
// WriteHistory, header excluded.
func ReadHistoryRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	all, err := f.GetRows(historySheet)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil
}
