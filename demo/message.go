// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package demo

// Message is a decoded outer demo message.
type Message interface {
	// Reset clears the message to its zero state.
	Reset()

	// Unmarshal decodes the message from its protobuf wire encoding,
	// replacing any previous contents.
	//
	// Unmarshal may retain references to data.
	Unmarshal(data []byte) error
}

// Stop marks the end of a demo (CDemoStop). It has no fields.
type Stop struct{}

// Reset implements Message.
func (m *Stop) Reset() { *m = Stop{} }

// Unmarshal implements Message.
func (m *Stop) Unmarshal(data []byte) error { return unmarshalEmpty(data) }

// SyncTick marks the end of the signon phase (CDemoSyncTick). It has no
// fields.
type SyncTick struct{}

// Reset implements Message.
func (m *SyncTick) Reset() { *m = SyncTick{} }

// Unmarshal implements Message.
func (m *SyncTick) Unmarshal(data []byte) error { return unmarshalEmpty(data) }

func unmarshalEmpty(data []byte) error {
	fr := newFieldReader(data)
	for fr.next() {
		fr.skip()
	}
	return fr.err
}

// FileHeader is the first message of a demo (CDemoFileHeader).
type FileHeader struct {
	DemoFileStamp            string
	NetworkProtocol          int32
	ServerName               string
	ClientName               string
	MapName                  string
	GameDirectory            string
	FullpacketsVersion       int32
	AllowClientsideEntities  bool
	AllowClientsideParticles bool
	Addons                   string
	DemoVersionName          string
	DemoVersionGUID          string
	BuildNum                 int32
	Game                     string
	ServerStartTick          int32
}

// Reset implements Message.
func (m *FileHeader) Reset() { *m = FileHeader{} }

// Unmarshal implements Message.
func (m *FileHeader) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.DemoFileStamp = fr.string()
		case 2:
			m.NetworkProtocol = fr.int32()
		case 3:
			m.ServerName = fr.string()
		case 4:
			m.ClientName = fr.string()
		case 5:
			m.MapName = fr.string()
		case 6:
			m.GameDirectory = fr.string()
		case 7:
			m.FullpacketsVersion = fr.int32()
		case 8:
			m.AllowClientsideEntities = fr.bool()
		case 9:
			m.AllowClientsideParticles = fr.bool()
		case 10:
			m.Addons = fr.string()
		case 11:
			m.DemoVersionName = fr.string()
		case 12:
			m.DemoVersionGUID = fr.string()
		case 13:
			m.BuildNum = fr.int32()
		case 14:
			m.Game = fr.string()
		case 15:
			m.ServerStartTick = fr.int32()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// FileInfo summarizes a finished demo (CDemoFileInfo).
type FileInfo struct {
	PlaybackTime   float32
	PlaybackTicks  int32
	PlaybackFrames int32

	// GameInfo is the encoded, game-specific CGameInfo message.
	GameInfo []byte
}

// Reset implements Message.
func (m *FileInfo) Reset() { *m = FileInfo{} }

// Unmarshal implements Message.
func (m *FileInfo) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.PlaybackTime = fr.float32()
		case 2:
			m.PlaybackTicks = fr.int32()
		case 3:
			m.PlaybackFrames = fr.int32()
		case 4:
			m.GameInfo = fr.bytes()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// SendTables carries the encoded send table definitions (CDemoSendTables).
type SendTables struct {
	Data []byte
}

// Reset implements Message.
func (m *SendTables) Reset() { *m = SendTables{} }

// Unmarshal implements Message.
func (m *SendTables) Unmarshal(data []byte) error {
	m.Reset()
	return unmarshalDataField(data, 1, &m.Data)
}

// ClassInfoClass is a single entry of ClassInfo.
type ClassInfoClass struct {
	ClassID     int32
	NetworkName string
	TableName   string
}

// Reset implements Message.
func (m *ClassInfoClass) Reset() { *m = ClassInfoClass{} }

// Unmarshal implements Message.
func (m *ClassInfoClass) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.ClassID = fr.int32()
		case 2:
			m.NetworkName = fr.string()
		case 3:
			m.TableName = fr.string()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// ClassInfo maps server class IDs to their network names (CDemoClassInfo).
type ClassInfo struct {
	Classes []*ClassInfoClass
}

// Reset implements Message.
func (m *ClassInfo) Reset() { *m = ClassInfo{} }

// Unmarshal implements Message.
func (m *ClassInfo) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			var c ClassInfoClass
			if fr.message(&c) {
				m.Classes = append(m.Classes, &c)
			}
		default:
			fr.skip()
		}
	}
	return fr.err
}

// StringTableItem is a single string table entry.
type StringTableItem struct {
	Str  string
	Data []byte
}

// Reset implements Message.
func (m *StringTableItem) Reset() { *m = StringTableItem{} }

// Unmarshal implements Message.
func (m *StringTableItem) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.Str = fr.string()
		case 2:
			m.Data = fr.bytes()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// StringTable is a single table of StringTables.
type StringTable struct {
	TableName       string
	Items           []*StringTableItem
	ItemsClientside []*StringTableItem
	TableFlags      int32
}

// Reset implements Message.
func (m *StringTable) Reset() { *m = StringTable{} }

// Unmarshal implements Message.
func (m *StringTable) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.TableName = fr.string()
		case 2:
			var item StringTableItem
			if fr.message(&item) {
				m.Items = append(m.Items, &item)
			}
		case 3:
			var item StringTableItem
			if fr.message(&item) {
				m.ItemsClientside = append(m.ItemsClientside, &item)
			}
		case 4:
			m.TableFlags = fr.int32()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// StringTables is a snapshot of all string tables (CDemoStringTables).
type StringTables struct {
	Tables []*StringTable
}

// Reset implements Message.
func (m *StringTables) Reset() { *m = StringTables{} }

// Unmarshal implements Message.
func (m *StringTables) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			var t StringTable
			if fr.message(&t) {
				m.Tables = append(m.Tables, &t)
			}
		default:
			fr.skip()
		}
	}
	return fr.err
}

// Packet wraps a block of encoded network messages (CDemoPacket).
//
// Packet is the message for both CommandPacket and CommandSignonPacket.
type Packet struct {
	Data []byte
}

// Reset implements Message.
func (m *Packet) Reset() { *m = Packet{} }

// Unmarshal implements Message.
func (m *Packet) Unmarshal(data []byte) error {
	m.Reset()
	return unmarshalDataField(data, 3, &m.Data)
}

// ConsoleCmd is a console command issued during recording
// (CDemoConsoleCmd).
type ConsoleCmd struct {
	CmdString string
}

// Reset implements Message.
func (m *ConsoleCmd) Reset() { *m = ConsoleCmd{} }

// Unmarshal implements Message.
func (m *ConsoleCmd) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.CmdString = fr.string()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// CustomData is game-specific data bound to a callback (CDemoCustomData).
type CustomData struct {
	CallbackIndex int32
	Data          []byte
}

// Reset implements Message.
func (m *CustomData) Reset() { *m = CustomData{} }

// Unmarshal implements Message.
func (m *CustomData) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.CallbackIndex = fr.int32()
		case 2:
			m.Data = fr.bytes()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// CustomDataCallbacks names the CustomData callbacks
// (CDemoCustomDataCallbacks).
type CustomDataCallbacks struct {
	SaveIDs []string
}

// Reset implements Message.
func (m *CustomDataCallbacks) Reset() { *m = CustomDataCallbacks{} }

// Unmarshal implements Message.
func (m *CustomDataCallbacks) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			if v, ok := fr.bytesOK(); ok {
				m.SaveIDs = append(m.SaveIDs, string(v))
			}
		default:
			fr.skip()
		}
	}
	return fr.err
}

// UserCmd is a recorded user input command (CDemoUserCmd).
type UserCmd struct {
	CmdNumber int32
	Data      []byte
}

// Reset implements Message.
func (m *UserCmd) Reset() { *m = UserCmd{} }

// Unmarshal implements Message.
func (m *UserCmd) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.CmdNumber = fr.int32()
		case 2:
			m.Data = fr.bytes()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// FullPacket is a full state snapshot (CDemoFullPacket).
type FullPacket struct {
	StringTable *StringTables
	Packet      *Packet
}

// Reset implements Message.
func (m *FullPacket) Reset() { *m = FullPacket{} }

// Unmarshal implements Message.
func (m *FullPacket) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			var st StringTables
			if fr.message(&st) {
				m.StringTable = &st
			}
		case 2:
			var pkt Packet
			if fr.message(&pkt) {
				m.Packet = &pkt
			}
		default:
			fr.skip()
		}
	}
	return fr.err
}

// SaveGame is an embedded save game (CDemoSaveGame).
type SaveGame struct {
	Data      []byte
	SteamID   uint64
	Signature uint64
	Version   int32
}

// Reset implements Message.
func (m *SaveGame) Reset() { *m = SaveGame{} }

// Unmarshal implements Message.
func (m *SaveGame) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 1:
			m.Data = fr.bytes()
		case 2:
			m.SteamID = fr.fixed64()
		case 3:
			m.Signature = fr.fixed64()
		case 4:
			m.Version = fr.int32()
		default:
			fr.skip()
		}
	}
	return fr.err
}

// SpawnGroups carries encoded spawn group messages (CDemoSpawnGroups).
type SpawnGroups struct {
	Msgs [][]byte
}

// Reset implements Message.
func (m *SpawnGroups) Reset() { *m = SpawnGroups{} }

// Unmarshal implements Message.
func (m *SpawnGroups) Unmarshal(data []byte) error {
	m.Reset()

	fr := newFieldReader(data)
	for fr.next() {
		switch fr.num {
		case 3:
			if v, ok := fr.bytesOK(); ok {
				m.Msgs = append(m.Msgs, v)
			}
		default:
			fr.skip()
		}
	}
	return fr.err
}

// unmarshalDataField decodes a message whose only known field is a bytes
// field numbered num.
func unmarshalDataField(data []byte, num int32, dst *[]byte) error {
	fr := newFieldReader(data)
	for fr.next() {
		if int32(fr.num) == num {
			*dst = fr.bytes()
		} else {
			fr.skip()
		}
	}
	return fr.err
}
