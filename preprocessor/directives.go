package preprocessor

// Timescale is the (unit, precision) pair installed by `` `timescale`` or
// the default_timescale option (spec section 6.2).
type Timescale struct {
	Unit      string
	Precision string
}

// NetType is the default net type installed by `` `default_nettype``.
type NetType string

const (
	NetTypeWire     NetType = "wire"
	NetTypeTri      NetType = "tri"
	NetTypeNone     NetType = "none" // `default_nettype none
	NetTypeUnset    NetType = ""
)

// UnconnectedDrive is the policy installed by `` `unconnected_drive``.
type UnconnectedDrive string

const (
	UnconnectedDrivePull0 UnconnectedDrive = "pull0"
	UnconnectedDrivePull1 UnconnectedDrive = "pull1"
	UnconnectedDriveNone  UnconnectedDrive = ""
)

// directiveState holds the semantic directive state exposed at every point
// in the token stream (spec section 4.3's closing paragraph): the parser
// snapshots this at the start of each design element.
type directiveState struct {
	timescale        Timescale
	nettype          NetType
	unconnectedDrive UnconnectedDrive
	inCellDefine     bool
}

// Snapshot is an immutable copy of directiveState handed to the parser.
type Snapshot struct {
	Timescale        Timescale
	NetType          NetType
	UnconnectedDrive UnconnectedDrive
	InCellDefine     bool
}

func (s *directiveState) snapshot() Snapshot {
	return Snapshot{
		Timescale:        s.timescale,
		NetType:          s.nettype,
		UnconnectedDrive: s.unconnectedDrive,
		InCellDefine:     s.inCellDefine,
	}
}
