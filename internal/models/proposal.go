package models

// SwapProposal is a validated swap request. Build one with
// NewPointsProposal or NewDirectProposal; the constructors enforce the
// type/field pairing, so a direct proposal always carries a requester
// item and a points proposal never does.
type SwapProposal struct {
	swapType        SwapType
	ownerItemID     string
	requesterItemID *string
}

// NewPointsProposal builds a proposal to redeem the owner's item for points.
func NewPointsProposal(ownerItemID string) (SwapProposal, error) {
	if ownerItemID == "" {
		return SwapProposal{}, ErrInvalidInput
	}
	return SwapProposal{swapType: SwapPoints, ownerItemID: ownerItemID}, nil
}

// NewDirectProposal builds a proposal to exchange the requester's item
// for the owner's item.
func NewDirectProposal(ownerItemID, requesterItemID string) (SwapProposal, error) {
	if ownerItemID == "" || requesterItemID == "" {
		return SwapProposal{}, ErrInvalidInput
	}
	if ownerItemID == requesterItemID {
		return SwapProposal{}, ErrInvalidInput
	}
	return SwapProposal{
		swapType:        SwapDirect,
		ownerItemID:     ownerItemID,
		requesterItemID: &requesterItemID,
	}, nil
}

// NewSwapProposal builds a proposal from wire-level fields, dispatching
// on the swap type.
func NewSwapProposal(swapType, ownerItemID string, requesterItemID *string) (SwapProposal, error) {
	switch SwapType(swapType) {
	case SwapPoints:
		if requesterItemID != nil {
			return SwapProposal{}, ErrInvalidInput
		}
		return NewPointsProposal(ownerItemID)
	case SwapDirect:
		if requesterItemID == nil {
			return SwapProposal{}, ErrInvalidInput
		}
		return NewDirectProposal(ownerItemID, *requesterItemID)
	}
	return SwapProposal{}, ErrInvalidInput
}

// Type returns the swap type of the proposal.
func (p SwapProposal) Type() SwapType { return p.swapType }

// OwnerItemID returns the requested item.
func (p SwapProposal) OwnerItemID() string { return p.ownerItemID }

// RequesterItemID returns the offered item, nil for points proposals.
func (p SwapProposal) RequesterItemID() *string { return p.requesterItemID }
