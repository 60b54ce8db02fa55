package state

import (
	"github.com/phasefund/phasefund/types"
)

// The registry is self-governing: every mutation requires an existing
// oversight caller. Bootstrap membership arrives through InitChain, which
// calls AddAccount directly.

func (s *State) requireOversight(caller uint64) (*Account, error) {
	a, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if a.Role != types.RoleOversight {
		return nil, ErrUnauthorizedAdmin
	}
	return a, nil
}

func (s *State) requireEmergencyAdmin(caller uint64) (*Account, error) {
	a, err := s.GetAccount(caller)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return nil, err
	}
	if !a.EmergencyAdmin {
		return nil, ErrUnauthorizedEmergency
	}
	return a, nil
}

// AddMember registers a new account with a committee role.
func (s *State) AddMember(caller uint64, pubkey []byte, role types.Role, regionID uint64, checkOnly bool) (event *types.EventMember, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupMembership, checkOnly); err != nil {
		return nil, err
	}
	if role != types.RoleRegional && role != types.RoleOversight {
		return nil, ErrInvalidRole
	}
	existing, err := s.FindAccount(addrOf(pubkey))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberExists
	}
	if checkOnly {
		return nil, nil
	}

	acnt := &Account{Role: role}
	acnt.SetPubKey(pubkey)
	if role == types.RoleRegional {
		acnt.RegionID = regionID
	}
	if err = s.AddAccount(acnt); err != nil {
		return nil, err
	}
	s.bumpNonce(admin)

	event = &types.EventMember{
		Op:       "add",
		Index:    acnt.Index,
		Address:  acnt.Address(),
		Role:     acnt.Role,
		RegionID: acnt.RegionID,
	}
	return
}

// UpdateMember overwrites the role atomically and rebinds the region when the
// new role is regional. Updating an account that never held a role is a hard
// error, not a no-op.
func (s *State) UpdateMember(caller uint64, target uint64, role types.Role, regionID uint64, checkOnly bool) (event *types.EventMember, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupMembership, checkOnly); err != nil {
		return nil, err
	}
	a, err := s.GetAccount(target)
	if err != nil {
		if err == ErrNotFound || err == ErrTxAccountNoexists {
			err = ErrMemberNotFound
		}
		return nil, err
	}
	if a.Role == types.RoleNone {
		return nil, ErrMemberNotFound
	}
	if role == types.RoleNone {
		return nil, ErrInvalidRole
	}
	if checkOnly {
		return nil, nil
	}

	if a.Role == types.RoleOversight && role != types.RoleOversight {
		s.header.OversightCount -= 1
	}
	if a.Role != types.RoleOversight && role == types.RoleOversight {
		s.header.OversightCount += 1
	}
	a.Role = role
	if role == types.RoleRegional {
		a.RegionID = regionID
	} else {
		a.RegionID = 0
	}
	s.markModified(a)
	s.bumpNonce(admin)

	event = &types.EventMember{
		Op:       "update",
		Index:    a.Index,
		Address:  a.Address(),
		Role:     a.Role,
		RegionID: a.RegionID,
	}
	return
}

// RemoveMember strips the role. The account itself stays (its balance and
// nonce survive), and votes it already cast remain counted: the vote ledger
// is append-only.
func (s *State) RemoveMember(caller uint64, target uint64, checkOnly bool) (event *types.EventMember, err error) {
	admin, err := s.requireOversight(caller)
	if err != nil {
		return nil, err
	}
	if err = s.checkPaused(types.GroupMembership, checkOnly); err != nil {
		return nil, err
	}
	a, err := s.GetAccount(target)
	if err != nil {
		if err == ErrNotFound || err == ErrTxAccountNoexists {
			err = ErrMemberNotFound
		}
		return nil, err
	}
	if a.Role == types.RoleNone {
		return nil, ErrMemberNotFound
	}
	if checkOnly {
		return nil, nil
	}

	if a.Role == types.RoleOversight {
		s.header.OversightCount -= 1
	}
	a.Role = types.RoleNone
	a.RegionID = 0
	s.markModified(a)
	s.bumpNonce(admin)

	event = &types.EventMember{
		Op:      "remove",
		Index:   a.Index,
		Address: a.Address(),
		Role:    types.RoleNone,
	}
	return
}

func addrOf(pubkey []byte) []byte {
	acnt := Account{}
	acnt.SetPubKey(pubkey)
	return acnt.AddrBytes()
}
