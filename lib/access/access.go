// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package access decides which pages a user can open. Pure functions,
// no I/O: the shell calls these to filter navigation and to redirect
// away from a page the current role cannot see. This is UI filtering
// only — every server endpoint re-checks authorization on its own.
package access

import "github.com/cclogistics/hrdesk/lib/hrapi"

// Page identifiers, matching the server's navigation catalog.
const (
	PageDashboard    = "dashboard"
	PageEmployees    = "employees"
	PageTimeTracking = "timeTracking"
	PageLeave        = "leave"
	PageCompliance   = "compliance"
	PageRecruiting   = "recruiting"
	PagePayroll      = "payroll"
	PagePerformance  = "performance"
	PageBenefits     = "benefits"
	PageBonuses      = "bonuses"
	PageMessages     = "messages"
	PageSettings     = "settings"
	PageTesting      = "testing"
)

// AllPages lists every page in navigation order.
var AllPages = []string{
	PageDashboard,
	PageEmployees,
	PageTimeTracking,
	PageLeave,
	PageCompliance,
	PageRecruiting,
	PagePayroll,
	PagePerformance,
	PageBenefits,
	PageBonuses,
	PageMessages,
	PageSettings,
	PageTesting,
}

// userAllowedPages is the fixed allow-list for the unprivileged user
// role: self-service pages only. Bonuses is deliberately absent — it
// has its own compound rule in CanAccessBonuses.
var userAllowedPages = map[string]bool{
	PageEmployees:    true,
	PageTimeTracking: true,
	PageLeave:        true,
	PagePayroll:      true,
	PageMessages:     true,
	PageSettings:     true,
}

// HasFullAccess reports whether role can open every page.
func HasFullAccess(role hrapi.Role) bool {
	return role == hrapi.RoleAdmin || role == hrapi.RoleManager
}

// CanAccessBonuses applies the one compound rule in the catalog: the
// bonuses page opens for full-access roles OR for any sales sub-role,
// regardless of the primary role. Do not fold this into the allow-list
// — the sales axis is independent of the role axis.
func CanAccessBonuses(role hrapi.Role, salesRole hrapi.SalesRole) bool {
	if HasFullAccess(role) {
		return true
	}
	return salesRole == hrapi.SalesAgent || salesRole == hrapi.SalesManager
}

// CanAccessPage reports whether a user with the given role and sales
// sub-role can open pageID. Unknown pages are denied for the user
// role.
func CanAccessPage(role hrapi.Role, salesRole hrapi.SalesRole, pageID string) bool {
	if HasFullAccess(role) {
		return true
	}
	if pageID == PageBonuses {
		return CanAccessBonuses(role, salesRole)
	}
	return userAllowedPages[pageID]
}

// AllowedPages returns the pages the user can open, in navigation
// order. Never empty for a valid role: the user allow-list guarantees
// at least the settings page.
func AllowedPages(role hrapi.Role, salesRole hrapi.SalesRole) []string {
	var pages []string
	for _, pageID := range AllPages {
		if CanAccessPage(role, salesRole, pageID) {
			pages = append(pages, pageID)
		}
	}
	return pages
}

// FirstAllowedPage returns the landing page for the user: the first
// page in navigation order they can open. The shell uses it both at
// login and to redirect away from a page the role lost access to.
func FirstAllowedPage(role hrapi.Role, salesRole hrapi.SalesRole) string {
	for _, pageID := range AllPages {
		if CanAccessPage(role, salesRole, pageID) {
			return pageID
		}
	}
	return PageSettings
}

// PageTitle returns the human-readable navigation label for pageID.
func PageTitle(pageID string) string {
	switch pageID {
	case PageDashboard:
		return "Dashboard"
	case PageEmployees:
		return "Employees"
	case PageTimeTracking:
		return "Time & Attendance"
	case PageLeave:
		return "Leave Management"
	case PageCompliance:
		return "Compliance"
	case PageRecruiting:
		return "Recruiting"
	case PagePayroll:
		return "Payroll"
	case PagePerformance:
		return "Performance"
	case PageBenefits:
		return "Benefits"
	case PageBonuses:
		return "Bonuses & Commissions"
	case PageMessages:
		return "Messages"
	case PageSettings:
		return "Settings"
	case PageTesting:
		return "Testing"
	default:
		return pageID
	}
}
