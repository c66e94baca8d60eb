package domain

import "encoding/json"

// Record is the persisted shape of a task. Field names and the integer
// status are part of the stored format.
type Record struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status int    `json:"status"`
}

// TaskMapper handles conversion between domain tasks and persisted records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a persisted Record.
func (m *TaskMapper) ToRecord(task Task) Record {
	return Record{
		ID:     task.ID,
		Name:   task.Name,
		Date:   task.CreatedAt,
		Status: int(task.Status),
	}
}

// FromRecord converts a persisted Record to a domain Task.
// Any non-zero status reads as Complete.
func (m *TaskMapper) FromRecord(record Record) Task {
	status := StatusIncomplete
	if record.Status != 0 {
		status = StatusComplete
	}
	return Task{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.Date,
		Status:    status,
	}
}

// ToRecordSlice converts a slice of domain Tasks to Records.
func (m *TaskMapper) ToRecordSlice(tasks []Task) []Record {
	records := make([]Record, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(task)
	}
	return records
}

// FromRecordSlice converts a slice of Records to domain Tasks.
func (m *TaskMapper) FromRecordSlice(records []Record) []Task {
	tasks := make([]Task, len(records))
	for i, record := range records {
		tasks[i] = m.FromRecord(record)
	}
	return tasks
}

// Encode serializes the collection to its persisted JSON form.
func (m *TaskMapper) Encode(tasks []Task) (string, error) {
	data, err := json.Marshal(m.ToRecordSlice(tasks))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses the persisted JSON form. A JSON null decodes to an empty collection.
func (m *TaskMapper) Decode(raw string) ([]Task, error) {
	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}
	if records == nil {
		return []Task{}, nil
	}
	return m.FromRecordSlice(records), nil
}
