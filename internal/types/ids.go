package types

import "strconv"

// ID types give semantic meaning to the integer keys of the issue tracker.

// ColumnID identifies an ordered column of issues
type ColumnID int

// IssueID identifies a single issue
type IssueID int

// ToInt converts the ID back to a plain int
func (id ColumnID) ToInt() int {
	return int(id)
}

func (id IssueID) ToInt() int {
	return int(id)
}

func (id ColumnID) String() string {
	return strconv.Itoa(int(id))
}

func (id IssueID) String() string {
	return strconv.Itoa(int(id))
}

// ColumnIDFromInt creates a ColumnID from an int
func ColumnIDFromInt(i int) ColumnID {
	return ColumnID(i)
}

// IssueIDFromInt creates an IssueID from an int
func IssueIDFromInt(i int) IssueID {
	return IssueID(i)
}
