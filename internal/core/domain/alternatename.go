package domain

import (
	"fmt"
	"time"
)

// AlternateName is one row of alternateNamesV2.txt.
type AlternateName struct {
	ID              int64
	GeonameID       int64
	ISOLanguage     string
	Name            string
	IsPreferredName bool
	IsShortName     bool
	IsColloquial    bool
	IsHistoric      bool
	From            *time.Time
	To              *time.Time
}

// HasLanguage reports whether the record carries an ISO language code.
func (a *AlternateName) HasLanguage() bool {
	return a.ISOLanguage != ""
}

// String returns a string representation of the alternate name
func (a *AlternateName) String() string {
	return fmt.Sprintf("%d: %s [%s] -> %d", a.ID, a.Name, a.ISOLanguage, a.GeonameID)
}
