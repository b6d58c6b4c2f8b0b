package models

import "fmt"

// InitialCheckpoints is the catalog seeded on first run.
func InitialCheckpoints() []Checkpoint {
	return []Checkpoint{
		{Code: "QR_001", Location: "Pos Utama Menara"},
		{Code: "QR_002", Location: "Blok Anggrek - Pintu Utama"},
		{Code: "QR_003", Location: "Blok Cempaka - Titik Rawan"},
		{Code: "QR_004", Location: "Area Dapur"},
		{Code: "QR_005", Location: "Area Bengkel Kerja"},
	}
}

// DemoData holds the seeded record history shown before any remote data
// has been pulled. initialLoad never regresses these to empty.
type DemoData struct {
	RollCalls  []RollCallRecord
	Activities []ActivityRecord
	Scans      []ScanRecord
}

var activityKinds = []string{
	"Kontrol keliling area blok",
	"Serah terima pos",
	"Penerimaan bahan makanan",
	"Pengawalan WBP ke klinik",
	"Pemeriksaan instalasi",
}

// GenerateDemoData builds two days of plausible history anchored on the
// given dates (most recent first), mirroring what a populated station
// looks like.
func GenerateDemoData(today, yesterday string) DemoData {
	d := DemoData{
		RollCalls: []RollCallRecord{
			{ID: 101, PIC: "Ka. Rupam I", Shift: ShiftPagi, Total: 452, Time: "07:30", Date: today},
			{ID: 102, PIC: "Ka. Rupam II", Shift: ShiftSiang, Total: 452, Time: "13:30", Date: today},
			{ID: 103, PIC: "Ka. Rupam III", Shift: ShiftMalam, Total: 452, Time: "19:30", Date: today},
			{ID: 201, PIC: "Ka. Rupam IV", Shift: ShiftPagi, Total: 450, Time: "07:30", Date: yesterday},
		},
	}

	catalog := InitialCheckpoints()
	teams := []string{"I", "II", "III", "IV"}
	for dayIdx, date := range []string{today, yesterday} {
		for i := 0; i < 15; i++ {
			d.Activities = append(d.Activities, ActivityRecord{
				ID:     int64(1000*(dayIdx+1) + i),
				Time:   fmt.Sprintf("%02d:15", 8+i),
				Name:   fmt.Sprintf("Petugas %c", 'A'+i%5),
				Desc:   activityKinds[i%len(activityKinds)] + " - Situasi aman.",
				User:   "Rupam " + teams[i%4],
				Images: []string{},
				Date:   date,
			})

			status, notes := StatusAman, "Aman terkendali"
			if i%10 == 0 {
				status, notes = StatusWaspada, "Perlu pengecekan ulang"
			}
			d.Scans = append(d.Scans, ScanRecord{
				ID:       int64(2000*(dayIdx+1) + i),
				Location: catalog[i%5].Location,
				Status:   status,
				Notes:    notes,
				Time:     fmt.Sprintf("%02d:%02d", 9+i/2, (i%2)*30),
				Date:     date,
			})
		}
	}
	return d
}
