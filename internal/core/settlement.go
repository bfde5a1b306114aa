package core

// Settlement balance status strings.
const (
	StatusOwed    = "You are owed"
	StatusOwing   = "You owe"
	StatusSettled = "All settled"
)

type SettlementBalance struct {
	UserID     int64  `json:"userId"`
	OwedToMe   Money  `json:"owedToMe"`
	IOwe       Money  `json:"iOwe"`
	NetBalance Money  `json:"netBalance"`
	Status     string `json:"status"`
}

// NetSettlements nets the household's directed settlements from one
// user's point of view. Summing NetBalance over every household member
// comes out to zero, since each settlement credits exactly one party and
// debits the other.
func NetSettlements(settlements []Settlement, userID int64) SettlementBalance {
	var owedToMe, iOwe Money
	for _, s := range settlements {
		if s.ToUserID == userID {
			owedToMe = owedToMe.Add(s.Amount)
		}
		if s.FromUserID == userID {
			iOwe = iOwe.Add(s.Amount)
		}
	}

	net := owedToMe.Sub(iOwe)
	status := StatusSettled
	switch {
	case net.Cents > 0:
		status = StatusOwed
	case net.Cents < 0:
		status = StatusOwing
	}

	return SettlementBalance{
		UserID:     userID,
		OwedToMe:   owedToMe,
		IOwe:       iOwe,
		NetBalance: net,
		Status:     status,
	}
}
