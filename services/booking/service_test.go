package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediq/config"
	appointmentRepo "mediq/database/repository/appointment"
	doctorRepo "mediq/database/repository/doctor"
	patientRepo "mediq/database/repository/patient"
	"mediq/models"
)

const (
	testDoctorID  = "doc-1"
	testPatientID = "pat-1"
	testDate      = "2025-06-10"
	testSlot      = "10:00 AM"
)

// fixedNow keeps testDate inside the booking window.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func cloneSlots(m models.SlotMap) models.SlotMap {
	if m == nil {
		return nil
	}
	out := models.SlotMap{}
	for d, day := range m {
		cd := models.DaySlots{}
		for slot, q := range day {
			cd[slot] = append(models.SlotQueue{}, q...)
		}
		out[d] = cd
	}
	return out
}

// fakeDoctorRepo mimics the document store: reads return independent
// copies, and UpdateSlots enforces the version check. Setting conflicts
// makes the next N writes fail as if a competing writer won the race.
type fakeDoctorRepo struct {
	doctors     map[string]*models.Doctor
	conflicts   int
	updateCalls int
}

func (r *fakeDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctorRepo.ErrNotFound
	}
	copied := *d
	copied.SlotsBooked = cloneSlots(d.SlotsBooked)
	return &copied, nil
}

func (r *fakeDoctorRepo) GetAll() ([]models.Doctor, error) { return nil, nil }

func (r *fakeDoctorRepo) Create(d *models.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) UpdateProfile(id string, fees float64, address models.Address, available bool) error {
	return nil
}

func (r *fakeDoctorRepo) SetAvailability(id string, available bool) error { return nil }

func (r *fakeDoctorRepo) UpdateSlots(id string, slots models.SlotMap, expectedVersion int) error {
	r.updateCalls++
	d, ok := r.doctors[id]
	if !ok {
		return doctorRepo.ErrNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		d.SlotsVersion++ // the competing writer committed first
		return doctorRepo.ErrVersionConflict
	}
	if d.SlotsVersion != expectedVersion {
		return doctorRepo.ErrVersionConflict
	}
	d.SlotsBooked = cloneSlots(slots)
	d.SlotsVersion++
	return nil
}

type fakeAppointmentRepo struct {
	appts map[string]*models.Appointment
	order []string
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: map[string]*models.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(a *models.Appointment) error {
	copied := *a
	r.appts[a.ID] = &copied
	r.order = append(r.order, a.ID)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(a *models.Appointment) error {
	if _, ok := r.appts[a.ID]; !ok {
		return appointmentRepo.ErrNotFound
	}
	copied := *a
	r.appts[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) Delete(id string) error {
	delete(r.appts, id)
	for i, entry := range r.order {
		if entry == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeAppointmentRepo) findBy(match func(*models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, id := range r.order {
		if a := r.appts[id]; a != nil && match(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (r *fakeAppointmentRepo) FindByDoctor(doctorID string) ([]models.Appointment, error) {
	return r.findBy(func(a *models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *fakeAppointmentRepo) FindByPatient(patientID string) ([]models.Appointment, error) {
	return r.findBy(func(a *models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *fakeAppointmentRepo) patch(id string, fn func(*models.Appointment)) error {
	a, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	fn(a)
	return nil
}

func (r *fakeAppointmentRepo) MarkCancelled(id string) error {
	return r.patch(id, func(a *models.Appointment) { a.Cancelled = true })
}

func (r *fakeAppointmentRepo) MarkCompleted(id string) error {
	return r.patch(id, func(a *models.Appointment) { a.IsCompleted = true })
}

func (r *fakeAppointmentRepo) SetPayment(id string, paid bool) error {
	return r.patch(id, func(a *models.Appointment) { a.Payment = paid })
}

func (r *fakeAppointmentRepo) SetNotificationSent(id string, sent bool) error {
	return r.patch(id, func(a *models.Appointment) { a.NotificationSent = sent })
}

func (r *fakeAppointmentRepo) UpdatePatientStatus(id string, status models.PatientStatus, at time.Time) error {
	return r.patch(id, func(a *models.Appointment) {
		a.PatientStatus = status
		a.StatusUpdatedAt = at
	})
}

type fakePatientRepo struct {
	patients map[string]*models.Patient
}

func (r *fakePatientRepo) GetByID(id string) (*models.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, patientRepo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePatientRepo) Create(p *models.Patient) error        { return nil }
func (r *fakePatientRepo) UpdateFCMToken(id, token string) error { return nil }

type fixture struct {
	svc      *DefaultBookingService
	doctors  *fakeDoctorRepo
	appts    *fakeAppointmentRepo
	patients *fakePatientRepo
}

func newFixture() *fixture {
	doctors := &fakeDoctorRepo{doctors: map[string]*models.Doctor{
		testDoctorID: {
			ID:        testDoctorID,
			Name:      "Richard James",
			Fees:      50,
			Available: true,
		},
	}}
	patients := &fakePatientRepo{patients: map[string]*models.Patient{
		testPatientID: {ID: testPatientID, Name: "Avinash"},
	}}
	appts := newFakeAppointmentRepo()

	return &fixture{
		svc: &DefaultBookingService{
			Doctors:      doctors,
			Appointments: appts,
			Patients:     patients,
			Policy: config.QueuePolicy{
				Capacity:           5,
				ServiceMinutes:     12,
				ArrivalLeadMinutes: 10,
				WindowDays:         30,
			},
			Now: func() time.Time { return fixedNow },
		},
		doctors:  doctors,
		appts:    appts,
		patients: patients,
	}
}

func TestBookAppointmentAssignsSequentialPositions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	wantEstimates := []string{"10:00 AM", "10:12 AM", "10:24 AM", "10:36 AM", "10:48 AM"}
	wantArrivals := []string{"09:50 AM", "10:02 AM", "10:14 AM", "10:26 AM", "10:38 AM"}

	for i := 0; i < 5; i++ {
		res, err := f.svc.BookAppointment(ctx, testPatientID, testDoctorID, testDate, testSlot)
		require.NoError(t, err, "booking %d", i+1)
		assert.Equal(t, i+1, res.QueuePosition)
		assert.Equal(t, i+1, res.TotalInSlot)
		assert.Equal(t, wantEstimates[i], res.EstimatedTime)
		assert.Equal(t, wantArrivals[i], res.SuggestedArrival)
	}

	_, err := f.svc.BookAppointment(ctx, testPatientID, testDoctorID, testDate, testSlot)
	assert.True(t, HasCode(err, CodeSlotFull), "sixth booking must be rejected, got %v", err)

	d := f.doctors.doctors[testDoctorID]
	assert.Len(t, d.SlotsBooked[testDate][testSlot], 5)
	assert.Equal(t, 5, d.SlotsVersion)
}

func TestBookAppointmentPersistsRecord(t *testing.T) {
	f := newFixture()

	res, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, testDate, testSlot)
	require.NoError(t, err)

	appt, err := f.appts.GetByID(res.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, testDoctorID, appt.DoctorID)
	assert.Equal(t, testPatientID, appt.PatientID)
	assert.Equal(t, "Richard James", appt.Doctor.Name)
	assert.Equal(t, float64(50), appt.Amount)
	assert.Equal(t, testDate, appt.SlotDate)
	assert.Equal(t, testSlot, appt.SlotTime)
	assert.Equal(t, "10:00 AM", appt.EstimatedTime)
	assert.Equal(t, "09:50 AM", appt.SuggestedArrival)
	assert.Equal(t, models.StatusWaiting, appt.PatientStatus)
	assert.True(t, appt.Active())
}

func TestBookAppointmentNormalizesLegacyDates(t *testing.T) {
	f := newFixture()

	res, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, "10_6_2025", testSlot)
	require.NoError(t, err)

	appt, err := f.appts.GetByID(res.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", appt.SlotDate)

	d := f.doctors.doctors[testDoctorID]
	assert.Contains(t, d.SlotsBooked, "2025-06-10", "queue must be keyed by the canonical date")
}

func TestBookAppointmentValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name                        string
		patient, doctor, date, slot string
		wantCode                    string
	}{
		{"garbage date", testPatientID, testDoctorID, "junk", testSlot, CodeDateOutOfWindow},
		{"past date", testPatientID, testDoctorID, "2025-05-31", testSlot, CodeDateOutOfWindow},
		{"beyond window", testPatientID, testDoctorID, "2025-07-02", testSlot, CodeDateOutOfWindow},
		{"before opening", testPatientID, testDoctorID, testDate, "08:00 AM", CodeInvalidSlotTime},
		{"after closing", testPatientID, testDoctorID, testDate, "08:00 PM", CodeInvalidSlotTime},
		{"half-hour slot", testPatientID, testDoctorID, testDate, "10:30 AM", CodeInvalidSlotTime},
		{"unknown patient", "ghost", testDoctorID, testDate, testSlot, CodeNotFound},
		{"unknown doctor", testPatientID, "ghost", testDate, testSlot, CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.BookAppointment(ctx, tc.patient, tc.doctor, tc.date, tc.slot)
			assert.True(t, HasCode(err, tc.wantCode), "got %v", err)
		})
	}

	assert.Empty(t, f.appts.appts, "rejected bookings must not leave appointment records")
}

func TestBookAppointmentDoctorUnavailable(t *testing.T) {
	f := newFixture()
	f.doctors.doctors[testDoctorID].Available = false

	_, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, testDate, testSlot)
	assert.True(t, HasCode(err, CodeDoctorUnavailable), "got %v", err)
}

func TestBookAppointmentRetriesOnVersionConflict(t *testing.T) {
	f := newFixture()
	f.doctors.conflicts = 1

	res, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, testDate, testSlot)
	require.NoError(t, err)
	assert.Equal(t, 1, res.QueuePosition)
	assert.Equal(t, 2, f.doctors.updateCalls, "the conflicting write must be retried once")
}

func TestBookAppointmentRollsBackWhenRetriesExhaust(t *testing.T) {
	f := newFixture()
	f.doctors.conflicts = slotWriteRetries

	_, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, testDate, testSlot)
	assert.True(t, HasCode(err, CodeStorageUnavailable), "got %v", err)
	assert.Empty(t, f.appts.appts, "the provisional appointment must be rolled back")
}

// seedQueue books n appointments into the test slot and returns their ids.
func seedQueue(t *testing.T, f *fixture, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		res, err := f.svc.BookAppointment(context.Background(), testPatientID, testDoctorID, testDate, testSlot)
		require.NoError(t, err)
		ids[i] = res.AppointmentID
	}
	return ids
}

func TestCancelByPatientShiftsQueueAndResetsNotification(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 3)

	// The old second-in-line was already notified.
	require.NoError(t, f.appts.SetNotificationSent(ids[1], true))
	require.NoError(t, f.appts.SetNotificationSent(ids[2], true))

	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))

	cancelled, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.True(t, cancelled.Cancelled)

	d := f.doctors.doctors[testDoctorID]
	assert.Equal(t, models.SlotQueue{ids[1], ids[2]}, d.SlotsBooked[testDate][testSlot])

	// ids[2] is the new second-in-line and becomes eligible again.
	promoted, err := f.appts.GetByID(ids[2])
	require.NoError(t, err)
	assert.False(t, promoted.NotificationSent)

	head, err := f.appts.GetByID(ids[1])
	require.NoError(t, err)
	assert.True(t, head.NotificationSent, "the head of the queue is not re-flagged")
}

func TestCancelByPatientPrunesEmptySlot(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 1)

	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))

	d := f.doctors.doctors[testDoctorID]
	_, ok := d.SlotsBooked[testDate]
	assert.False(t, ok, "the emptied date entry must be pruned")
}

func TestCancelByPatientUnauthorized(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 1)

	err := f.svc.CancelByPatient(context.Background(), "someone-else", ids[0])
	assert.True(t, HasCode(err, CodeUnauthorized), "got %v", err)

	appt, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.False(t, appt.Cancelled)
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newFixture()
	err := f.svc.CancelByPatient(context.Background(), testPatientID, "ghost")
	assert.True(t, HasCode(err, CodeNotFound), "got %v", err)
}

func TestCancelAbsentFromQueueIsIdempotent(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 2)

	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))
	// Cancelling again only re-flags; the queue is untouched.
	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))

	d := f.doctors.doctors[testDoctorID]
	assert.Equal(t, models.SlotQueue{ids[1]}, d.SlotsBooked[testDate][testSlot])
}

func TestCancelByDoctor(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 2)

	err := f.svc.CancelByDoctor(context.Background(), "other-doc", ids[0])
	assert.True(t, HasCode(err, CodeUnauthorized), "got %v", err)

	require.NoError(t, f.svc.CancelByDoctor(context.Background(), testDoctorID, ids[0]))
	appt, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.True(t, appt.Cancelled)
}

func TestCompleteReleasesQueueEntry(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 2)

	require.NoError(t, f.svc.Complete(context.Background(), testDoctorID, ids[0]))

	appt, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.True(t, appt.IsCompleted)
	assert.False(t, appt.Active())

	d := f.doctors.doctors[testDoctorID]
	assert.Equal(t, models.SlotQueue{ids[1]}, d.SlotsBooked[testDate][testSlot])
}

func TestReleaseRetriesOnVersionConflict(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 2)
	f.doctors.conflicts = 1

	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))

	d := f.doctors.doctors[testDoctorID]
	assert.Equal(t, models.SlotQueue{ids[1]}, d.SlotsBooked[testDate][testSlot])
}

func TestListForPatientRecomputesPositions(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 3)

	require.NoError(t, f.svc.CancelByPatient(context.Background(), testPatientID, ids[0]))

	views, err := f.svc.ListForPatient(context.Background(), testPatientID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byID := map[string]models.AppointmentView{}
	for _, v := range views {
		byID[v.ID] = v
	}

	// The cancelled appointment carries no queue info.
	assert.Equal(t, 0, byID[ids[0]].QueuePosition)

	// Survivors shifted forward; estimates follow the live position, not
	// the booking-time snapshot.
	assert.Equal(t, 1, byID[ids[1]].QueuePosition)
	assert.Equal(t, 0, byID[ids[1]].PeopleAhead)
	assert.Equal(t, 2, byID[ids[1]].TotalInSlot)
	assert.Equal(t, "10:00 AM", byID[ids[1]].EstimatedTime)
	assert.Equal(t, "09:50 AM", byID[ids[1]].SuggestedArrival)
	assert.False(t, byID[ids[1]].Defaulted)

	assert.Equal(t, 2, byID[ids[2]].QueuePosition)
	assert.Equal(t, "10:12 AM", byID[ids[2]].EstimatedTime)
}

func TestListFallsBackWhenQueueEntryMissing(t *testing.T) {
	f := newFixture()

	// A record predating queue tracking: active, but absent from the
	// doctor's slot map.
	legacy := &models.Appointment{
		ID:        "legacy-1",
		DoctorID:  testDoctorID,
		PatientID: testPatientID,
		SlotDate:  testDate,
		SlotTime:  testSlot,
	}
	require.NoError(t, f.appts.Create(legacy))

	views, err := f.svc.ListForPatient(context.Background(), testPatientID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.True(t, v.Defaulted)
	assert.Equal(t, 1, v.QueuePosition)
	assert.Equal(t, 0, v.PeopleAhead)
	assert.Equal(t, 1, v.TotalInSlot)
	assert.Equal(t, testSlot, v.EstimatedTime, "defaulted estimate is the slot time itself")
	assert.Equal(t, "09:50 AM", v.SuggestedArrival)
}

func TestListForDoctor(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 2)

	views, err := f.svc.ListForDoctor(context.Background(), testDoctorID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, ids[0], views[0].ID)
	assert.Equal(t, 1, views[0].QueuePosition)
	assert.Equal(t, 2, views[1].QueuePosition)
}

func TestUpdatePatientStatus(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 1)
	ctx := context.Background()

	require.NoError(t, f.svc.UpdatePatientStatus(ctx, testPatientID, ids[0], models.StatusOnMyWay))
	appt, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnMyWay, appt.PatientStatus)
	assert.Equal(t, fixedNow, appt.StatusUpdatedAt)

	err = f.svc.UpdatePatientStatus(ctx, testPatientID, ids[0], "teleporting")
	assert.True(t, HasCode(err, CodeInvalidStatus), "got %v", err)

	err = f.svc.UpdatePatientStatus(ctx, "someone-else", ids[0], models.StatusArrived)
	assert.True(t, HasCode(err, CodeUnauthorized), "got %v", err)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture()
	ids := seedQueue(t, f, 1)
	ctx := context.Background()

	require.NoError(t, f.svc.MarkPaid(ctx, ids[0]))
	appt, err := f.appts.GetByID(ids[0])
	require.NoError(t, err)
	assert.True(t, appt.Payment)

	require.NoError(t, f.svc.CancelByPatient(ctx, testPatientID, ids[0]))
	err = f.svc.MarkPaid(ctx, ids[0])
	assert.True(t, HasCode(err, CodeNotFound), "got %v", err)
}

func TestValidSlotTimeWhitelist(t *testing.T) {
	for hour := 9; hour <= 11; hour++ {
		assert.True(t, ValidSlotTime(fmt.Sprintf("%02d:00 AM", hour)))
	}
	assert.True(t, ValidSlotTime("12:00 PM"))
	for hour := 1; hour <= 7; hour++ {
		assert.True(t, ValidSlotTime(fmt.Sprintf("%02d:00 PM", hour)))
	}

	assert.False(t, ValidSlotTime("08:00 AM"))
	assert.False(t, ValidSlotTime("08:00 PM"))
	assert.False(t, ValidSlotTime("12:00 AM"))
	assert.False(t, ValidSlotTime("9:00 AM"), "slot labels are two-digit padded")
}
