package http

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/store"
)

func memberToProto(m core.MemberSnapshot, _ int) proto.Member {
	return proto.Member{
		ID:        uint32(m.ID),
		SessionID: m.SessionID,
		Nickname:  m.Nickname,
		Color:     string(m.Color),
	}
}

func roomToSummary(r core.RoomSnapshot, _ int) proto.RoomSummary {
	return proto.RoomSummary{
		Name:        r.Name,
		Members:     lo.Map(r.Members, memberToProto),
		HistorySize: len(r.History),
	}
}

func roomToDetail(r core.RoomSnapshot) proto.RoomDetail {
	history := r.History
	if history == nil {
		history = []string{}
	}
	return proto.RoomDetail{
		RoomSummary: roomToSummary(r, 0),
		History:     history,
	}
}

func snapshotToList(s core.Snapshot) proto.RoomList {
	return proto.RoomList{
		Rooms:   lo.Map(s.Rooms, roomToSummary),
		Clients: s.Indexed,
	}
}

func auditToProto(e *store.AuditEntry, _ int) proto.AuditRecord {
	return proto.AuditRecord{
		ID:        e.ID,
		Kind:      string(e.Kind),
		ClientID:  e.ClientID,
		SessionID: e.SessionID,
		Nickname:  e.Nickname,
		Room:      e.Room,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}
