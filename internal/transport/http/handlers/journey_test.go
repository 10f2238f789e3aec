package handlers_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipAndSessionJourney(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	trainerID := api.createStaff(admin, "Tara Trainer", "tara@gym.test", "Trainer",
		map[string]any{"mode": "hourly", "hourlyRate": 20})
	memberID := api.createMember(admin, "Mo Member", "mo@gym.test")
	trainer := api.account(admin, "tara.login@gym.test", "Trainer", trainerID)
	member := api.account(admin, "mo.login@gym.test", "Member", memberID)

	gold := api.call(http.MethodPost, "/plans", admin, map[string]any{
		"name": "Gold", "price": "49.99", "durationDays": 30,
	}, http.StatusCreated).object(t)
	retired := api.call(http.MethodPost, "/plans", admin, map[string]any{
		"name": "Legacy", "price": 10, "durationDays": 30, "active": false,
	}, http.StatusCreated).object(t)

	plans := api.call(http.MethodGet, "/plans", member, nil, http.StatusOK).list(t)
	require.Len(t, plans, 1)
	assert.Equal(t, "Gold", plans[0]["name"])
	assert.EqualValues(t, 49.99, plans[0]["price"])

	env := api.call(http.MethodPost, "/plan-requests", member, map[string]any{"planId": retired["id"]}, http.StatusBadRequest)
	assert.Equal(t, "validation_error", env.Error.Code)

	// The member id in the body is ignored for members.
	req := api.call(http.MethodPost, "/plan-requests", member, map[string]any{
		"planId": gold["id"], "memberId": "someone-else", "note": "starting Monday",
	}, http.StatusCreated).object(t)
	assert.Equal(t, memberID, req["memberId"])
	assert.Equal(t, "pending", req["status"])

	approved := api.call(http.MethodPost, "/plan-requests/"+req["id"].(string)+"/approve", admin, nil, http.StatusOK).object(t)
	assert.Equal(t, "approved", approved["status"])
	env = api.call(http.MethodPost, "/plan-requests/"+req["id"].(string)+"/reject", admin, nil, http.StatusConflict)
	assert.Equal(t, "invalid_state", env.Error.Code)

	notices := api.call(http.MethodGet, "/notifications", member, nil, http.StatusOK).list(t)
	require.Len(t, notices, 1)
	assert.Equal(t, "plan_request_approved", notices[0]["type"])
	api.call(http.MethodPost, "/notifications/"+notices[0]["id"].(string)+"/read", member, nil, http.StatusOK)

	session := api.call(http.MethodPost, "/sessions", member, map[string]any{
		"trainerId": trainerID, "date": "2024-05-08", "time": "6pm", "type": "Strength",
	}, http.StatusCreated).object(t)
	id := session["id"].(string)
	assert.Equal(t, "Booked", session["status"])
	assert.Equal(t, "18:00", session["time"])
	assert.Equal(t, "Tara Trainer", session["trainerName"])

	api.call(http.MethodPost, "/sessions/"+id+"/complete", trainer, nil, http.StatusConflict)
	api.call(http.MethodPost, "/sessions/"+id+"/accept", member, nil, http.StatusForbidden)
	accepted := api.call(http.MethodPost, "/sessions/"+id+"/accept", trainer, nil, http.StatusOK).object(t)
	assert.Equal(t, "Upcoming", accepted["status"])

	moved := api.call(http.MethodPost, "/sessions/"+id+"/reschedule", member, map[string]any{
		"date": "2024-05-09", "time": "07:30",
	}, http.StatusOK).object(t)
	assert.Equal(t, "2024-05-09", moved["date"])
	assert.Equal(t, "Upcoming", moved["status"])

	week := api.call(http.MethodGet, "/sessions/week?week=2024-05-09", trainer, nil, http.StatusOK).object(t)
	assert.Equal(t, "2024-05-06", week["start"])
	days := week["days"].([]any)
	require.Len(t, days, 7)
	thursday := days[3].(map[string]any)
	assert.Len(t, thursday["slots"], 1)

	done := api.call(http.MethodPost, "/sessions/"+id+"/complete", trainer, nil, http.StatusOK).object(t)
	assert.Equal(t, "Completed", done["status"])
	api.call(http.MethodPost, "/sessions/"+id+"/reschedule", member, map[string]any{
		"date": "2024-05-10", "time": "07:30",
	}, http.StatusConflict)

	trainerNotices := api.call(http.MethodGet, "/notifications", trainer, nil, http.StatusOK).list(t)
	require.Len(t, trainerNotices, 1)
	assert.Equal(t, "session_rescheduled", trainerNotices[0]["type"])

	trainers := api.call(http.MethodGet, "/trainers", member, nil, http.StatusOK).list(t)
	require.Len(t, trainers, 1)
	assert.NotContains(t, trainers[0], "compensation")
}

func TestMembersOnlySeeTheirOwnRecords(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	trainerID := api.createStaff(admin, "Tara Trainer", "tara@gym.test", "Trainer",
		map[string]any{"mode": "fixed", "fixedSalary": 3000})
	aliceID := api.createMember(admin, "Alice", "alice@gym.test")
	bobID := api.createMember(admin, "Bob", "bob@gym.test")
	alice := api.account(admin, "alice.login@gym.test", "Member", aliceID)
	bob := api.account(admin, "bob.login@gym.test", "Member", bobID)

	session := api.call(http.MethodPost, "/sessions", alice, map[string]any{
		"trainerId": trainerID, "date": "2024-05-08", "time": "10:00",
	}, http.StatusCreated).object(t)

	assert.Empty(t, api.call(http.MethodGet, "/sessions", bob, nil, http.StatusOK).list(t))
	api.call(http.MethodGet, "/sessions/"+session["id"].(string), bob, nil, http.StatusNotFound)
	api.call(http.MethodPost, "/sessions/"+session["id"].(string)+"/cancel", bob, nil, http.StatusNotFound)
	api.call(http.MethodGet, "/members/"+aliceID, bob, nil, http.StatusForbidden)
	api.call(http.MethodGet, "/members/"+bobID, bob, nil, http.StatusOK)
	api.call(http.MethodGet, "/members", bob, nil, http.StatusForbidden)
	api.call(http.MethodPost, "/staff", bob, map[string]any{"fullName": "X"}, http.StatusForbidden)
	api.call(http.MethodGet, "/salaries", bob, nil, http.StatusForbidden)

	cancelled := api.call(http.MethodPost, "/sessions/"+session["id"].(string)+"/cancel", alice, nil, http.StatusOK).object(t)
	assert.Equal(t, "Cancelled", cancelled["status"])

	// Colleagues do not see each other's pay.
	deskID := api.createStaff(admin, "Dee Desk", "dee@gym.test", "Staff", map[string]any{"mode": "fixed", "fixedSalary": 2000})
	desk := api.account(admin, "dee.login@gym.test", "Staff", deskID)
	api.call(http.MethodGet, "/staff/"+trainerID, desk, nil, http.StatusForbidden)
	self := api.call(http.MethodGet, "/staff/"+deskID, desk, nil, http.StatusOK).object(t)
	assert.Equal(t, "fixed", self["compensation"].(map[string]any)["mode"])
}

func TestRosterAndSalaryJourney(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	trainerID := api.createStaff(admin, "Tara Trainer", "tara@gym.test", "Trainer",
		map[string]any{"mode": "hourly", "hourlyRate": "20.00"})
	trainer := api.account(admin, "tara.login@gym.test", "Trainer", trainerID)

	shift := api.call(http.MethodPost, "/roster", admin, map[string]any{
		"staffId":   trainerID,
		"shiftType": "Break Shift",
		"date":      "2024-05-06",
		"startTime": "09:00",
		"endTime":   "17:00",
		"breaks":    []map[string]string{{"start": "12:00", "end": "13:00"}},
	}, http.StatusCreated).object(t)
	shiftID := shift["id"].(string)
	assert.Equal(t, "Scheduled", shift["status"])

	// Scheduled shifts do not count toward pay.
	preview := api.call(http.MethodPost, "/salaries/preview", admin, map[string]any{
		"staffId": trainerID, "periodStart": "2024-05-01", "periodEnd": "2024-05-31", "useRosterHours": true,
	}, http.StatusOK).object(t)
	assert.EqualValues(t, 0, preview["netPay"])

	env := api.call(http.MethodPost, "/salaries", admin, map[string]any{
		"staffId": trainerID, "periodStart": "2024-05-01", "periodEnd": "2024-05-31", "hoursWorked": "1000000000000000000",
	}, http.StatusBadRequest)
	assert.Equal(t, "validation_error", env.Error.Code)
	api.call(http.MethodPost, "/salaries/preview", admin, map[string]any{
		"staffId": trainerID, "periodStart": "2024-05-01", "periodEnd": "2024-05-31", "hoursWorked": 7.125,
	}, http.StatusBadRequest)

	api.call(http.MethodPost, "/roster/"+shiftID+"/approve", trainer, nil, http.StatusForbidden)
	api.call(http.MethodPost, "/roster/"+shiftID+"/approve", admin, nil, http.StatusOK)
	env = api.call(http.MethodPut, "/roster/"+shiftID, admin, map[string]any{
		"staffId": trainerID, "date": "2024-05-06", "startTime": "08:00", "endTime": "17:00",
	}, http.StatusConflict)
	assert.Equal(t, "locked", env.Error.Code)

	own := api.call(http.MethodGet, "/roster", trainer, nil, http.StatusOK).list(t)
	require.Len(t, own, 1)
	shiftNotices := api.call(http.MethodGet, "/notifications", trainer, nil, http.StatusOK).list(t)
	require.Len(t, shiftNotices, 1)
	assert.Equal(t, "shift_approved", shiftNotices[0]["type"])

	rec := api.call(http.MethodPost, "/salaries", admin, map[string]any{
		"staffId":        trainerID,
		"periodStart":    "2024-05-01",
		"periodEnd":      "2024-05-31",
		"useRosterHours": true,
		"bonuses":        []map[string]any{{"label": "Referral", "amount": 10}},
		"deductions":     []map[string]any{{"label": "Locker", "amount": "5"}},
	}, http.StatusCreated).object(t)
	salaryID := rec["id"].(string)
	assert.Equal(t, "Generated", rec["status"])
	assert.Equal(t, "7", rec["hoursWorked"])
	assert.EqualValues(t, 140, rec["hourlyTotal"])
	assert.EqualValues(t, 145, rec["netPay"])

	api.call(http.MethodPost, "/salaries/"+salaryID+"/pay", admin, nil, http.StatusConflict)
	api.call(http.MethodPost, "/salaries/"+salaryID+"/approve", admin, nil, http.StatusOK)
	paid := api.call(http.MethodPost, "/salaries/"+salaryID+"/pay", admin, nil, http.StatusOK).object(t)
	assert.Equal(t, "Paid", paid["status"])

	env = api.call(http.MethodPut, "/salaries/"+salaryID, admin, map[string]any{
		"periodStart": "2024-05-01", "periodEnd": "2024-05-31", "hoursWorked": "8",
	}, http.StatusConflict)
	assert.Equal(t, "locked", env.Error.Code)
	api.call(http.MethodDelete, "/salaries/"+salaryID, admin, nil, http.StatusConflict)

	mine := api.call(http.MethodGet, "/salaries", trainer, nil, http.StatusOK).list(t)
	require.Len(t, mine, 1)
	notices := api.call(http.MethodGet, "/notifications", trainer, nil, http.StatusOK).list(t)
	assert.Equal(t, "salary_paid", notices[0]["type"])

	resp := api.raw(http.MethodGet, "/salaries/"+salaryID+"/payslip", trainer, nil, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))

	export := api.raw(http.MethodGet, "/salaries/export?status=Paid", admin, nil, nil)
	defer export.Body.Close()
	require.Equal(t, http.StatusOK, export.StatusCode)
	assert.Contains(t, export.Header.Get("Content-Disposition"), "salary-register.xlsx")

	events := api.call(http.MethodGet, "/audit?entityType=salary_record", admin, nil, http.StatusOK).list(t)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e["action"].(string))
	}
	assert.ElementsMatch(t, []string{"generate", "approve", "pay"}, actions)

	env = api.call(http.MethodDelete, "/staff/"+trainerID, admin, nil, http.StatusConflict)
	assert.Equal(t, "locked", env.Error.Code)
	api.call(http.MethodGet, "/roster/"+shiftID, admin, nil, http.StatusOK)
}

func TestCheckinPassJourney(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	memberID := api.createMember(admin, "Mo Member", "mo@gym.test")
	member := api.account(admin, "mo.login@gym.test", "Member", memberID)
	deskID := api.createStaff(admin, "Dee Desk", "dee@gym.test", "Staff", map[string]any{"mode": "fixed", "fixedSalary": 2000})
	desk := api.account(admin, "dee.login@gym.test", "Staff", deskID)

	qr := api.raw(http.MethodGet, "/members/"+memberID+"/checkin-qr", member, nil, nil)
	defer qr.Body.Close()
	require.Equal(t, http.StatusOK, qr.StatusCode)
	assert.Equal(t, "image/png", qr.Header.Get("Content-Type"))

	pass := api.call(http.MethodGet, "/checkins/pass", member, nil, http.StatusOK).object(t)
	token := pass["token"].(string)

	api.call(http.MethodPost, "/checkins/verify", member, map[string]any{"token": token}, http.StatusForbidden)
	result := api.call(http.MethodPost, "/checkins/verify", desk, map[string]any{"token": token}, http.StatusOK).object(t)
	assert.Equal(t, memberID, result["memberId"])
	assert.Equal(t, "Mo Member", result["memberName"])

	env := api.call(http.MethodPost, "/checkins/verify", desk, map[string]any{"token": "garbage"}, http.StatusUnauthorized)
	assert.Equal(t, "invalid_pass", env.Error.Code)

	api.call(http.MethodPut, "/members/"+memberID, admin, map[string]any{
		"fullName": "Mo Member", "email": "mo@gym.test", "status": "inactive",
	}, http.StatusOK)
	env = api.call(http.MethodPost, "/checkins/verify", desk, map[string]any{"token": token}, http.StatusConflict)
	assert.Equal(t, "invalid_state", env.Error.Code)
}

func TestRequestValidationAndConcurrency(t *testing.T) {
	api := newAPI(t)
	admin := api.login(adminEmail, adminPassword)

	env := api.call(http.MethodPost, "/staff", admin, map[string]any{
		"fullName": "", "email": "not-an-email", "role": "Janitor",
	}, http.StatusBadRequest)
	assert.Equal(t, "validation_error", env.Error.Code)
	require.NotNil(t, env.Error.Details["fields"])

	env = api.call(http.MethodPost, "/plans", admin, map[string]any{"name": "Gold", "durationDays": 30, "colour": "gold"}, http.StatusBadRequest)
	assert.Equal(t, "validation_error", env.Error.Code)

	api.call(http.MethodGet, "/staff", "", nil, http.StatusUnauthorized)
	api.call(http.MethodPost, "/auth/login", "", map[string]string{"email": adminEmail, "password": "wrong"}, http.StatusUnauthorized)

	plan := api.call(http.MethodPost, "/plans", admin, map[string]any{"name": "Gold", "price": 40, "durationDays": 30}, http.StatusCreated).object(t)
	id := plan["id"].(string)
	update := map[string]any{"name": "Gold+", "price": 45, "durationDays": 30}
	api.call(http.MethodPut, "/plans/"+id+"?version=1", admin, update, http.StatusOK)
	env = api.call(http.MethodPut, "/plans/"+id+"?version=1", admin, update, http.StatusConflict)
	assert.Equal(t, "conflict", env.Error.Code)

	deactivated := api.call(http.MethodDelete, "/plans/"+id, admin, nil, http.StatusOK).object(t)
	assert.Equal(t, false, deactivated["active"])
	api.call(http.MethodGet, "/plans/"+id, admin, nil, http.StatusOK)
	api.call(http.MethodGet, "/plans/missing", admin, nil, http.StatusNotFound)

	menu := api.call(http.MethodGet, "/menu", admin, nil, http.StatusOK).object(t)
	assert.Equal(t, "Admin", menu["role"])
	assert.NotEmpty(t, menu["items"])
}
