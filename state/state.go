package state

import (
	"encoding/json"
	"fmt"
	"sort"

	cmtcrypto "github.com/cometbft/cometbft/crypto"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/phasefund/phasefund/tx"
	"github.com/phasefund/phasefund/types"
)

const (
	StartAccountIdx = 65536

	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
)

// Record keys inside the iavl tree. Accounts use a body record plus an
// address-to-index record; everything else is a single JSON record staged
// through the dirty buffer.
var (
	KeyState           = "s"
	KeyAccountIndex    = "i%s"
	KeyAccountBody     = "a%v"
	KeyProject         = "p%x"
	KeyVote            = "v%x"
	KeyVoterMark       = "vm%x:%v"
	KeyClaim           = "c%x"
	KeyPauseConfig     = "g%v"
	KeyPauseProposal   = "pp%v"
	KeyPauseVoterMark  = "pm%v:%v"
	KeyWeightProposal  = "wp%v"
	KeyWeightVoterMark = "wm%v:%v"
	KeyApprovalSet     = "ea%x"
	KeyTimelock        = "tl%x"
)

// StateHeader is the committed chain summary. OversightCount is maintained by
// the membership operations so supermajority thresholds never require a scan.
type StateHeader struct {
	ChainID           string             `json:"chainId"`
	Height            uint64             `json:"height"`
	Time              int64              `json:"time"`
	AccountIdx        uint64             `json:"accountIdx"`
	OversightCount    uint64             `json:"oversightCount"`
	PauseProposalIdx  uint64             `json:"pauseProposalIdx"`
	WeightProposalIdx uint64             `json:"weightProposalIdx"`
	Weights           types.PhaseWeights `json:"weights"`
	VotingPeriod      int64              `json:"votingPeriod"`
	RootHash          []byte             `json:"rootHash"`
	Hash              []byte             `json:"hash"`
}

func (h *StateHeader) clone() *StateHeader {
	n := *h
	n.RootHash = append([]byte(nil), h.RootHash...)
	n.Hash = append([]byte(nil), h.Hash...)
	return &n
}

// State is one working version of the governance ledger. Transaction handlers
// mutate it through the dirty staging buffer; nothing touches the tree until
// Update, and nothing persists until save. A failed block therefore leaves the
// committed state untouched, which is the all-or-nothing model every
// operation relies on.
type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header *StateHeader
	idxs   map[string]uint64
	acnts  map[uint64]*Account

	modifiedAcnts map[uint64]uint32
	dirty         map[string][]byte
	removed       map[string]bool

	transfer Transferrer
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	s := &State{
		logger:        logger,
		db:            db,
		dbVer:         0,
		header:        new(StateHeader),
		idxs:          make(map[string]uint64),
		acnts:         make(map[uint64]*Account),
		modifiedAcnts: make(map[uint64]uint32),
		dirty:         make(map[string][]byte),
		removed:       make(map[string]bool),
		transfer:      LedgerTransfer{},
	}
	s.header.AccountIdx = StartAccountIdx
	return s
}

func (s *State) nextState() *State {
	n := &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		idxs:          make(map[string]uint64),
		acnts:         make(map[uint64]*Account),
		modifiedAcnts: make(map[uint64]uint32),
		dirty:         make(map[string][]byte),
		removed:       make(map[string]bool),
		transfer:      s.transfer,
	}
	n.header = s.header.clone()
	if s.header.Hash != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

func (s *State) Clone() *State {
	n := &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		idxs:          make(map[string]uint64),
		acnts:         make(map[uint64]*Account),
		modifiedAcnts: make(map[uint64]uint32),
		dirty:         make(map[string][]byte),
		removed:       make(map[string]bool),
		transfer:      s.transfer,
	}
	n.header = s.header.clone()
	for k, v := range s.idxs {
		n.idxs[k] = v
	}
	for k, v := range s.acnts {
		n.acnts[k] = v.Clone()
	}
	for k, v := range s.modifiedAcnts {
		n.modifiedAcnts[k] = v
	}
	for k, v := range s.dirty {
		n.dirty[k] = append([]byte(nil), v...)
	}
	for k := range s.removed {
		n.removed[k] = true
	}
	return n
}

// SetTransferrer swaps the fund-transfer capability. Tests inject a failing
// transferrer to exercise the release rollback.
func (s *State) SetTransferrer(t Transferrer) {
	s.transfer = t
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyState))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = json.Unmarshal(val, s.header)
		if err != nil {
			return
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		s.header.RootHash = append(s.header.RootHash[:0], rootHash...)
		s.header.Hash = append(s.header.Hash[:0], h[:]...)
	}
	return
}

// putRecord stages a JSON record; it lands in the tree on Update.
func (s *State) putRecord(key string, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.dirty[key] = bz
	delete(s.removed, key)
	return nil
}

// removeRecord stages a deletion.
func (s *State) removeRecord(key string) {
	delete(s.dirty, key)
	s.removed[key] = true
}

// getRecord reads staged-first, then the tree. Returns false when absent.
func (s *State) getRecord(key string, out any) (bool, error) {
	if s.removed[key] {
		return false, nil
	}
	if bz, ok := s.dirty[key]; ok {
		return true, json.Unmarshal(bz, out)
	}
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if val == nil {
		return false, nil
	}
	return true, json.Unmarshal(val, out)
}

func (s *State) hasRecord(key string) (bool, error) {
	if s.removed[key] {
		return false, nil
	}
	if _, ok := s.dirty[key]; ok {
		return true, nil
	}
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return val != nil, nil
}

// Update flushes the header, staged records and modified accounts into the
// working tree version and returns the resulting app hash. The tree is rolled
// back wholesale if any write fails.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = json.Marshal(s.header)
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyState), val)
	if err != nil {
		return
	}

	if len(s.dirty) > 0 {
		keys := make([]string, 0, len(s.dirty))
		for k := range s.dirty {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, err = s.db.Set([]byte(k), s.dirty[k])
			if err != nil {
				return
			}
		}
	}
	if len(s.removed) > 0 {
		keys := make([]string, 0, len(s.removed))
		for k := range s.removed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _, err = s.db.Remove([]byte(k))
			if err != nil {
				return
			}
		}
	}

	n := len(s.modifiedAcnts)
	if n > 0 {
		idxs := make([]uint64, 0, n)
		for idx := range s.modifiedAcnts {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool {
			return idxs[i] < idxs[j]
		})
		for _, idx := range idxs {
			flag := s.modifiedAcnts[idx]
			acnt := s.acnts[idx]
			key := fmt.Sprintf(KeyAccountBody, acnt.Index)
			val, err = json.Marshal(acnt)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
			if flag&ModifiedFlagNew == ModifiedFlagNew {
				key = fmt.Sprintf(KeyAccountIndex, acnt.Address())
				val, err = json.Marshal(acnt.Index)
				if err != nil {
					return
				}
				_, err = s.db.Set([]byte(key), val)
				if err != nil {
					return
				}
			}
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[uint64]uint32)
	s.dirty = make(map[string][]byte)
	s.removed = make(map[string]bool)
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainID = chainId
}

// SetBlockTime threads the block timestamp into the working state. Every
// deadline comparison in the ledger uses this, never wall time, so replays
// are deterministic.
func (s *State) SetBlockTime(t int64) {
	s.header.Time = t
}

func (s *State) Now() int64 {
	return s.header.Time
}

func (s *State) SetVotingPeriod(period int64) {
	s.header.VotingPeriod = period
}

func (s *State) SetWeights(w types.PhaseWeights) {
	s.header.Weights = w
}

func (s *State) Weights() types.PhaseWeights {
	return s.header.Weights
}

func (s *State) GetAccount(idx uint64) (acnt *Account, err error) {
	if idx >= s.header.AccountIdx {
		err = ErrTxAccountNoexists
		return
	}
	acnt = s.acnts[idx]
	if acnt != nil {
		return
	}
	key := fmt.Sprintf(KeyAccountBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if val == nil {
		err = ErrNotFound
		return
	}
	acnt = new(Account)
	err = json.Unmarshal(val, acnt)
	if err != nil {
		acnt = nil
		return
	}
	s.acnts[idx] = acnt
	return
}

func (s *State) FindAccount(addr []byte) (acnt *Account, err error) {
	saddr := cmtcrypto.Address(addr).String()
	idx, ok := s.idxs[saddr]
	if !ok {
		key := fmt.Sprintf(KeyAccountIndex, saddr)
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if err == leveldb.ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		err = json.Unmarshal(val, &idx)
		if err != nil {
			return nil, err
		}
		s.idxs[saddr] = idx
	}
	acnt, err = s.GetAccount(idx)
	return
}

// AddAccount registers a fresh account. Used by InitChain for the bootstrap
// membership and by the membership operations afterwards.
func (s *State) AddAccount(acnt *Account) (err error) {
	a, err := s.FindAccount(acnt.AddrBytes())
	if err != nil {
		return err
	}
	if a != nil {
		return ErrAccountAlreadyExists
	}
	acnt.Index = s.header.AccountIdx
	s.header.AccountIdx += 1
	if acnt.Role == types.RoleOversight {
		s.header.OversightCount += 1
	}
	s.acnts[acnt.Index] = acnt.Clone()
	s.idxs[acnt.Address()] = acnt.Index
	s.modifiedAcnts[acnt.Index] = ModifiedFlagNew
	return
}

func (s *State) markModified(a *Account) {
	v := s.modifiedAcnts[a.Index]
	v |= ModifiedFlagMod
	s.modifiedAcnts[a.Index] = v
	s.acnts[a.Index] = a.Clone()
}

func (s *State) bumpNonce(a *Account) {
	a.Nonce += 1
	s.markModified(a)
}

// Verify checks the envelope of a signed transaction against the account it
// names: existence, nonce and ed25519 signature over the chain-id-bound
// digest.
func (s *State) Verify(btx *tx.Tx, allowNonceGap bool) (succ bool, err error) {
	a, err := s.GetAccount(btx.Account)
	if err != nil {
		if err == ErrNotFound {
			err = ErrTxAccountNoexists
		}
		return succ, err
	}
	if a == nil {
		err = ErrTxAccountNoexists
		return
	}
	if !(a.Nonce == btx.Nonce || (allowNonceGap && a.Nonce < btx.Nonce)) {
		err = ErrTxNonceInvalid
		return
	}
	dat, err := btx.SigData([]byte(s.header.ChainID))
	if err != nil {
		return succ, err
	}
	succ = a.Verify(dat, btx.Sig)
	if !succ {
		err = ErrTxSigInvalid
	}
	return
}

// DeriveProjectID makes project ids unique and deterministic across the
// validator set: keccak over creator address, initiating claim and block time.
func DeriveProjectID(creator []byte, claim common.Hash, createdAt int64) common.Hash {
	buf := make([]byte, 0, len(creator)+32+8)
	buf = append(buf, creator...)
	buf = append(buf, claim[:]...)
	for i := 7; i >= 0; i-- {
		buf = append(buf, byte(uint64(createdAt)>>(8*uint(i))))
	}
	return crypto.Keccak256Hash(buf)
}
