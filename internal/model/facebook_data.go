package model

import "time"

// FacebookData mirrors the `facebook_data` table: a pool of scraped
// page records. Unlike companies, the pool is non-exclusive — the same
// record may be handed to several users — so handing out a record
// inserts into assigned_facebook_data instead of claiming ownership.
type FacebookData struct {
	ID           uint64    `json:"id"`
	PageName     string    `json:"page_name"`
	PageURL      string    `json:"page_url"`
	Category     *string   `json:"category"`
	Followers    *int      `json:"followers"`
	ContactEmail *string   `json:"contact_email"`
	Phone        *string   `json:"phone"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssignedFacebookData is one row of a user's handout history: the
// facebook record joined with when it was handed out. The backing
// assigned_facebook_data table keeps UNIQUE(facebook_data_id, user_id),
// so each pair is recorded at most once; duplicate assignment attempts
// are silently ignored.
type AssignedFacebookData struct {
	FacebookData
	AssignedAt time.Time `json:"assigned_at"`
}
