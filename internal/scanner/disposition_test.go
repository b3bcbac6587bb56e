package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/event-entry/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		ticket model.Ticket
		want   Disposition
	}{
		{"markable", model.Ticket{Status: model.TicketActive, CanBeMarkedAttended: true, CanVerify: true, IsEventActive: true}, Markable},
		{"attended", model.Ticket{Status: model.TicketAttended, IsEventActive: true}, Attended},
		{"used", model.Ticket{Status: model.TicketUsed, IsEventActive: true}, Attended},
		{"registered elsewhere", model.Ticket{Status: model.TicketRegistered, CanVerify: false, IsEventActive: true}, NotAssigned},
		{"registered elsewhere flagged markable", model.Ticket{Status: model.TicketRegistered, CanVerify: false, CanBeMarkedAttended: true, IsEventActive: true}, NotAssigned},
		{"cancelled", model.Ticket{Status: model.TicketCancelled, IsEventActive: true}, Cancelled},
		{"expired", model.Ticket{Status: model.TicketExpired, IsEventActive: true}, Expired},
		{"event inactive", model.Ticket{Status: model.TicketActive, CanVerify: true}, Inactive},
		{"pending", model.Ticket{Status: model.TicketPending, CanVerify: true, IsEventActive: true}, Pending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.ticket))
		})
	}
}

func TestNotAssignedIsInformational(t *testing.T) {
	v := Present(model.ScanResult{
		Status: model.ScanSuccess,
		Tickets: []model.Ticket{
			{TicketID: "t1", Status: model.TicketRegistered, CanVerify: false, IsEventActive: true},
			{TicketID: "t2", Status: model.TicketActive, CanBeMarkedAttended: true, CanVerify: true, IsEventActive: true},
			{TicketID: "t3", Status: model.TicketRegistered, CanVerify: false, CanBeMarkedAttended: true, IsEventActive: true},
		},
	})

	assert.Equal(t, model.ScanSuccess, v.Status)
	assert.Empty(t, v.Message)
	assert.Equal(t, NotAssigned, v.Tickets[0].Disposition)
	assert.Equal(t, "Not assigned to this event", v.Tickets[0].Label)
	assert.Empty(t, v.Tickets[0].Actions)
	assert.Equal(t, []string{ActionMarkAttended}, v.Tickets[1].Actions)
	assert.Equal(t, NotAssigned, v.Tickets[2].Disposition)
	assert.Empty(t, v.Tickets[2].Actions)
}
