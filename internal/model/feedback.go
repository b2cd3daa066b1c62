package model

type Feedback struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// When возвращает время отзыва в том поле, которое заполнил бэкенд
func (f *Feedback) When() string {
	if f.Timestamp != "" {
		return f.Timestamp
	}
	return f.CreatedAt
}

type FeedbackInput struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}
