// params.go - symbolic parameter addresses mirroring the Roland SysEx address map.
//
// Grounded on original_source/libemusc/src/params.h. Per-part addresses are
// expressed relative to part 0; Settings keeps one copy of each PatchParam
// per part and the caller supplies the part index alongside the symbol,
// matching the 0x1pxx/0x2pxx layout of the real address map.

package scsynth

// SystemParam addresses the 0x00_00_xx block (global, not per part).
type SystemParam uint16

const (
	SysTune                SystemParam = 0x0000 // 4 nibbles, 0x014-0x7e8, center 0x400
	SysTune1               SystemParam = 0x0001
	SysTune2               SystemParam = 0x0002
	SysTune3               SystemParam = 0x0003
	SysVolume              SystemParam = 0x0004 // 0-0x7f, default 0x7f
	SysKeyShift            SystemParam = 0x0005 // 0x28-0x58, default 0x40
	SysPan                 SystemParam = 0x0006 // 0x01-0x7f, default 0x40
	SysResetGSStandardMode SystemParam = 0x007f
	SysSampleRate          SystemParam = 0x0080 // 4 bytes, 32000-96000, default 44100
	SysChannels            SystemParam = 0x0084 // 1-2, default 2
	SysRxSysEx             SystemParam = 0x0090
	SysRxGMOn              SystemParam = 0x0091
	SysRxGSReset           SystemParam = 0x0092
	SysRxInstrumentChange  SystemParam = 0x0093
	SysRxFunctionControl   SystemParam = 0x0094
	SysDeviceID            SystemParam = 0x0095 // 1-32, default 17
)

// PatchParam addresses the per-part 0x01_px_xx and 0x02_px_xx blocks, plus
// the global reverb/chorus macro block at 0x01_30..0x01_3f.
type PatchParam uint16

const (
	PatchName    PatchParam = 0x0100 // 12 bytes
	PartialReserve PatchParam = 0x0110

	ReverbMacro        PatchParam = 0x0130
	ReverbCharacter    PatchParam = 0x0131
	ReverbPreLPF       PatchParam = 0x0132
	ReverbLevel        PatchParam = 0x0133
	ReverbTime         PatchParam = 0x0134
	ReverbDelayFeedback PatchParam = 0x0135
	ReverbSendToChorus PatchParam = 0x0136
	ReverbPreDelayTime PatchParam = 0x0137

	ChorusMacro           PatchParam = 0x0138
	ChorusPreLPF          PatchParam = 0x0139
	ChorusLevel           PatchParam = 0x013a
	ChorusFeedback        PatchParam = 0x013b
	ChorusDelay           PatchParam = 0x013c
	ChorusRate            PatchParam = 0x013d
	ChorusDepth           PatchParam = 0x013e
	ChorusSendToReverb    PatchParam = 0x013f

	// Per-part base addresses (add partOffset(part)).
	ToneNumber          PatchParam = 0x1000
	ToneNumber2         PatchParam = 0x1001
	RxChannel           PatchParam = 0x1002 // 1-17, 17 = off
	RxPitchBend         PatchParam = 0x1003
	RxChPressure        PatchParam = 0x1004
	RxProgramChange     PatchParam = 0x1005
	RxControlChange     PatchParam = 0x1006
	RxPolyPressure      PatchParam = 0x1007
	RxNoteMessage       PatchParam = 0x1008
	RxRPN               PatchParam = 0x1009
	RxNRPN              PatchParam = 0x100a
	RxModulation        PatchParam = 0x100b
	RxVolume            PatchParam = 0x100c
	RxPanpot            PatchParam = 0x100d
	RxExpression        PatchParam = 0x100e
	RxHold1             PatchParam = 0x100f
	RxPortamento        PatchParam = 0x1010
	RxSostenuto         PatchParam = 0x1011
	RxSoft              PatchParam = 0x1012
	PolyMode            PatchParam = 0x1013
	AssignMode          PatchParam = 0x1014
	UseForRhythm        PatchParam = 0x1015 // 0=off, 1=map1, 2=map2
	PitchKeyShift       PatchParam = 0x1016 // 0x28-0x58, default 0x40
	PitchOffsetFine     PatchParam = 0x1017 // 2 bytes
	PitchOffsetFine2    PatchParam = 0x1018
	PartLevel           PatchParam = 0x1019 // 0-0x7f, default 0x64
	VelocitySenseDepth  PatchParam = 0x101a
	VelocitySenseOffset PatchParam = 0x101b
	PartPanpot          PatchParam = 0x101c // 0-0x7f, default 0x40, 0=random
	KeyRangeLow         PatchParam = 0x101d
	KeyRangeHigh        PatchParam = 0x101e
	CC1ControllerNumber PatchParam = 0x101f
	CC2ControllerNumber PatchParam = 0x1020
	ChorusSendLevel     PatchParam = 0x1021 // CC#93
	ReverbSendLevel     PatchParam = 0x1022 // CC#91
	RxBankSelect        PatchParam = 0x1023
	RxBankSelectLSB     PatchParam = 0x1024
	PitchFineTune       PatchParam = 0x102a // 2 bytes
	PitchFineTune2      PatchParam = 0x102b
	DelaySendLevel      PatchParam = 0x102c

	VibratoRate     PatchParam = 0x1030 // NRPN 01 08
	VibratoDepth    PatchParam = 0x1031 // NRPN 01 09
	TVFCutoffFreq   PatchParam = 0x1032 // NRPN 01 20
	TVFResonance    PatchParam = 0x1033 // NRPN 01 21
	TVFAEnvAttack   PatchParam = 0x1034 // NRPN 01 63
	TVFAEnvDecay    PatchParam = 0x1035 // NRPN 01 64
	TVFAEnvRelease  PatchParam = 0x1036 // NRPN 01 66
	VibratoDelay    PatchParam = 0x1037 // NRPN 01 0a

	ScaleTuningC  PatchParam = 0x1040
	ScaleTuningCs PatchParam = 0x1041
	ScaleTuningD  PatchParam = 0x1042
	ScaleTuningDs PatchParam = 0x1043
	ScaleTuningE  PatchParam = 0x1044
	ScaleTuningF  PatchParam = 0x1045
	ScaleTuningFs PatchParam = 0x1046
	ScaleTuningG  PatchParam = 0x1047
	ScaleTuningGs PatchParam = 0x1048
	ScaleTuningA  PatchParam = 0x1049
	ScaleTuningAs PatchParam = 0x104a
	ScaleTuningB  PatchParam = 0x104b

	PitchBend        PatchParam = 0x1080 // 2 bytes, 0-0x3fff, center/default 0x2000
	Modulation       PatchParam = 0x1082
	CC1Controller    PatchParam = 0x1083
	CC2Controller    PatchParam = 0x1084
	ChannelPressure  PatchParam = 0x1085
	PolyKeyPressure  PatchParam = 0x1086
	Hold1            PatchParam = 0x1087
	Sostenuto        PatchParam = 0x1088
	Soft             PatchParam = 0x1089
	Expression       PatchParam = 0x108a // default 0x7f
	Portamento       PatchParam = 0x108b
	PortamentoTime   PatchParam = 0x108c
	RPNLSB           PatchParam = 0x1090
	RPNMSB           PatchParam = 0x1091
	NRPNLSB          PatchParam = 0x1092
	NRPNMSB          PatchParam = 0x1093
	PitchCoarseTune  PatchParam = 0x1094 // RPN#2
	PitchBendRange   PatchParam = 0x1095 // RPN#0, semitones 0-24, default 2

	// Controller destination blocks: each has 11 slots, base+0..base+10.
	ModDestBase  PatchParam = 0x2000
	PBDestBase   PatchParam = 0x2010
	CAfDestBase  PatchParam = 0x2020
	PAfDestBase  PatchParam = 0x2030
	CC1DestBase  PatchParam = 0x2040
	CC2DestBase  PatchParam = 0x2050
)

// Controller-destination slot offsets (added to a *DestBase).
const (
	DestPitchControl    = 0
	DestTVFCutoffControl = 1
	DestAmplitudeControl = 2
	DestLFO1RateControl  = 3
	DestLFO1PitchDepth   = 4
	DestLFO1TVFDepth     = 5
	DestLFO1TVADepth     = 6
	DestLFO2RateControl  = 7
	DestLFO2PitchDepth   = 8
	DestLFO2TVFDepth     = 9
	DestLFO2TVADepth     = 10
)

// DrumParam addresses the per-drum-map, per-key 0x41_mx_xx block.
type DrumParam uint16

const (
	DrumMapName        DrumParam = 0x0000 // 12 bytes
	DrumPlayKeyNumber  DrumParam = 0x0100
	DrumLevel          DrumParam = 0x0200
	DrumAssignGroup    DrumParam = 0x0300
	DrumPanpot         DrumParam = 0x0400
	DrumReverbDepth    DrumParam = 0x0500
	DrumChorusDepth    DrumParam = 0x0600
	DrumRxNoteOff      DrumParam = 0x0700
	DrumRxNoteOn       DrumParam = 0x0800
)

