package models

// PlanCount — число пользователей на плане.
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int    `json:"count"`
}

// Overview — сводные показатели за период.
type Overview struct {
	TotalUsers         int         `json:"totalUsers"`
	NewUsersInRange    int         `json:"newUsersInRange"`
	TotalAttempts      int         `json:"totalAttempts"`
	CompletedAttempts  int         `json:"completedAttempts"`
	CompletionRate     float64     `json:"completionRate"`
	AvgDurationSeconds int         `json:"avgDurationSeconds"`
	PlanDistribution   []PlanCount `json:"planDistribution"`
}

// ExamStat — статистика по одному экзамену.
type ExamStat struct {
	ReviewerID         string  `json:"reviewerId"`
	ReviewerName       string  `json:"reviewerName"`
	TotalAttempts      int     `json:"totalAttempts"`
	CompletedAttempts  int     `json:"completedAttempts"`
	CompletionRate     float64 `json:"completionRate"`
	AvgScore           float64 `json:"avgScore"`
	PassRate           float64 `json:"passRate"`
	AvgDurationSeconds int     `json:"avgDurationSeconds"`
}

// HourActivity — активность за час суток; ID — номер часа.
type HourActivity struct {
	ID          int `json:"_id"`
	Attempts    int `json:"attempts"`
	UniqueUsers int `json:"uniqueUsers"`
}

// DayActivity — активность за день; ID — дата в формате 2006-01-02.
type DayActivity struct {
	ID          string `json:"_id"`
	Attempts    int    `json:"attempts"`
	UniqueUsers int    `json:"uniqueUsers"`
}

// DayCount — количество регистраций за день.
type DayCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// UserActivity — активность пользователей за период.
type UserActivity struct {
	ActiveUsersCount int            `json:"activeUsersCount"`
	ActivityByHour   []HourActivity `json:"activityByHour"`
	ActivityByDay    []DayActivity  `json:"activityByDay"`
	SignupsByDay     []DayCount     `json:"signupsByDay"`
}

// TopUser — один из самых активных пользователей.
type TopUser struct {
	UserID         string  `json:"userId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	AttemptCount   int     `json:"attemptCount"`
	CompletedCount int     `json:"completedCount"`
	LastAttempt    *string `json:"lastAttempt"`
}

// Retention — показатели удержания.
type Retention struct {
	ReturningUsers     int       `json:"returningUsers"`
	ReturningRate      float64   `json:"returningRate"`
	AvgAttemptsPerUser float64   `json:"avgAttemptsPerUser"`
	TopUsers           []TopUser `json:"topUsers"`
}
