package loan

import (
	"fmt"
	"strings"
)

// Status 借阅状态
// Lost/Cancelled只声明不流转，预留给后续的挂失、撤销流程
type Status int

const (
	StatusActive    Status = 1 // 借出中
	StatusReturned  Status = 2 // 已归还
	StatusOverdue   Status = 3 // 已逾期
	StatusLost      Status = 4 // 已丢失
	StatusCancelled Status = 5 // 已撤销
)

var statusNames = map[Status]string{
	StatusActive:    "Active",
	StatusReturned:  "Returned",
	StatusOverdue:   "Overdue",
	StatusLost:      "Lost",
	StatusCancelled: "Cancelled",
}

// 合法的状态流转
var transitions = map[Status][]Status{
	StatusActive:  {StatusReturned, StatusOverdue},
	StatusOverdue: {StatusReturned},
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsValid 是否为已声明的状态
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// HoldsCopy 该状态下借阅是否占用一本副本
func (s Status) HoldsCopy() bool {
	return s == StatusActive || s == StatusOverdue
}

// CanTransitionTo 检查状态流转是否合法
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseStatus 按名称解析状态（不区分大小写）
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown loan status %q", name)
}
