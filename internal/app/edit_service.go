package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/tally/internal/core/attrib"
	"github.com/example/tally/internal/core/rank"
	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ctxutil"
	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

// attestPrompt is the note attached when an edit is rejected for a missing
// attestation.
const attestPrompt = "Edit reverted: no confirmed identity. Run `tally attest` and retry."

// EditServiceImpl implements the EditService interface. The edit is
// applied to the store first and reverted on rejection, so the store never
// holds a value the guard has not seen.
type EditServiceImpl struct {
	sheets secondary.SheetStore
	state  secondary.StateStore
	now    func() time.Time
}

// NewEditService creates a new EditService with injected dependencies.
func NewEditService(sheets secondary.SheetStore, state secondary.StateStore) *EditServiceImpl {
	return &EditServiceImpl{
		sheets: sheets,
		state:  state,
		now:    time.Now,
	}
}

// ApplyEdit runs the guard pipeline for one cell edit. Rejections revert
// the cell and come back as reason codes; the error return is reserved for
// store faults.
func (s *EditServiceImpl) ApplyEdit(ctx context.Context, req primary.EditRequest) (*primary.EditOutcome, error) {
	if req.Row < week.HeaderRows {
		return &primary.EditOutcome{Status: primary.EditIgnored, TargetCol: req.Col}, nil
	}
	view, err := s.sheets.GetView(ctx, req.View)
	if err != nil {
		return nil, err
	}
	if view == nil || view.Reserved {
		return &primary.EditOutcome{Status: primary.EditIgnored, TargetCol: req.Col}, nil
	}

	if err := s.sheets.SetCell(ctx, req.View, req.Row, req.Col, req.NewValue); err != nil {
		return nil, err
	}

	header, err := s.sheets.Header(ctx, req.View)
	if err != nil {
		return nil, err
	}

	// A view with no agreed active block accepts no rank edits at all.
	block, _, err := week.ResolveActive(header)
	if err != nil {
		return s.reject(ctx, req, req.Col, req.PrevValue,
			primary.EditRejectedWindow, "no active week is open for edits")
	}
	if req.Col < block.Start || req.Col > block.End {
		return s.reject(ctx, req, req.Col, req.PrevValue,
			primary.EditRejectedWindow, "column is outside the active week")
	}

	if !rank.IsRank(cellAt(header[1], req.Col)) {
		return &primary.EditOutcome{Status: primary.EditAcceptedNonRank, TargetCol: req.Col}, nil
	}

	// Row state with the edited cell at its previous value, so the slot
	// math is independent of the write above.
	slots, err := s.rankSlots(ctx, req, block)
	if err != nil {
		return nil, err
	}
	firstMissing := 0
	for i, v := range slots {
		if v != "" {
			firstMissing = i + 1
		}
	}

	editedIdx := req.Col - block.Start
	targetIdx := editedIdx
	targetCol := req.Col
	status := primary.EditAccepted

	if req.NewValue != "" && editedIdx > firstMissing {
		// The value belongs in the first open slot, not where it was typed.
		if err := s.sheets.SetCell(ctx, req.View, req.Row, req.Col, req.PrevValue); err != nil {
			return nil, err
		}
		targetIdx = firstMissing
		targetCol = block.Start + firstMissing
		if err := s.sheets.SetCell(ctx, req.View, req.Row, targetCol, req.NewValue); err != nil {
			return nil, err
		}
		status = primary.EditRelocated
	}

	if req.NewValue != "" {
		for i := 0; i < targetIdx; i++ {
			if slots[i] == "" {
				return s.reject(ctx, req, targetCol, s.revertValue(req, targetCol),
					primary.EditRejectedSequence,
					fmt.Sprintf("record %q first", rank.Labels[i]))
			}
		}
	}

	actor := ctxutil.ActorFromContext(ctx)
	identity, err := s.state.GetUser(ctx, actor, attestationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read attestation: %w", err)
	}
	if identity == "" {
		outcome, err := s.reject(ctx, req, targetCol, s.revertValue(req, targetCol),
			primary.EditRejectedIdentity, "no confirmed identity for this user")
		if err != nil {
			return nil, err
		}
		note, nerr := s.sheets.Note(ctx, req.View, req.Row, req.Col)
		if nerr != nil {
			return nil, nerr
		}
		prompt := attestPrompt
		if note != "" {
			prompt += "\n" + note
		}
		if nerr := s.sheets.SetNote(ctx, req.View, req.Row, req.Col, prompt); nerr != nil {
			return nil, nerr
		}
		return outcome, nil
	}

	note, err := s.sheets.Note(ctx, req.View, req.Row, targetCol)
	if err != nil {
		return nil, err
	}
	if err := s.sheets.SetNote(ctx, req.View, req.Row, targetCol,
		attrib.Prepend(note, identity, s.now())); err != nil {
		return nil, err
	}

	return &primary.EditOutcome{Status: status, TargetCol: targetCol}, nil
}

// Attest stores the verified identity for the invoking actor.
func (s *EditServiceImpl) Attest(ctx context.Context, identity string) error {
	actor := ctxutil.ActorFromContext(ctx)
	if err := s.state.SetUser(ctx, actor, attestationKey, identity); err != nil {
		return fmt.Errorf("failed to store attestation: %w", err)
	}
	return nil
}

// Attestation returns the stored identity, or "" when unconfirmed.
func (s *EditServiceImpl) Attestation(ctx context.Context) (string, error) {
	actor := ctxutil.ActorFromContext(ctx)
	identity, err := s.state.GetUser(ctx, actor, attestationKey)
	if err != nil {
		return "", fmt.Errorf("failed to read attestation: %w", err)
	}
	return identity, nil
}

// rankSlots reads the row's rank cells across the active block with the
// edited cell restored to its previous value.
func (s *EditServiceImpl) rankSlots(ctx context.Context, req primary.EditRequest, block week.Block) ([]string, error) {
	slots := make([]string, block.End-block.Start+1)
	for i := range slots {
		col := block.Start + i
		if col == req.Col {
			slots[i] = req.PrevValue
			continue
		}
		v, err := s.sheets.Cell(ctx, req.View, req.Row, col)
		if err != nil {
			return nil, err
		}
		slots[i] = v
	}
	return slots, nil
}

// revertValue is what a rejected target cell goes back to: the previous
// value at the origin column, empty at a relocation target.
func (s *EditServiceImpl) revertValue(req primary.EditRequest, targetCol int) string {
	if targetCol == req.Col {
		return req.PrevValue
	}
	return ""
}

func (s *EditServiceImpl) reject(ctx context.Context, req primary.EditRequest, targetCol int, revertTo string, status primary.EditStatus, message string) (*primary.EditOutcome, error) {
	if err := s.sheets.SetCell(ctx, req.View, req.Row, targetCol, revertTo); err != nil {
		return nil, err
	}
	return &primary.EditOutcome{Status: status, TargetCol: req.Col, Message: message}, nil
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Ensure EditServiceImpl implements the interface
var _ primary.EditService = (*EditServiceImpl)(nil)
