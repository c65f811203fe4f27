// Package domain re-exports the model types so callers can import a single
// package as `types` without caring which sub-area owns a table.
package domain

import (
	"github.com/brickline/brickline-backend/internal/domain/finance"
	"github.com/brickline/brickline-backend/internal/domain/org"
)

type Project = org.Project
type Company = org.Company
type CostCode = org.CostCode

type Budget = finance.Budget
type BudgetLine = finance.BudgetLine
type BudgetLineMetadata = finance.BudgetLineMetadata
type Commitment = finance.Commitment
type CommitmentLine = finance.CommitmentLine
type ChangeOrder = finance.ChangeOrder
type ChangeOrderLine = finance.ChangeOrderLine
type VendorBill = finance.VendorBill
type VarianceAlert = finance.VarianceAlert

type BudgetStatus = finance.BudgetStatus
type CommitmentStatus = finance.CommitmentStatus
type ChangeOrderStatus = finance.ChangeOrderStatus
type VendorBillStatus = finance.VendorBillStatus
type VarianceAlertType = finance.VarianceAlertType
type VarianceAlertStatus = finance.VarianceAlertStatus

const (
	BudgetStatusDraft    = finance.BudgetStatusDraft
	BudgetStatusApproved = finance.BudgetStatusApproved
	BudgetStatusLocked   = finance.BudgetStatusLocked

	CommitmentStatusDraft    = finance.CommitmentStatusDraft
	CommitmentStatusApproved = finance.CommitmentStatusApproved
	CommitmentStatusComplete = finance.CommitmentStatusComplete
	CommitmentStatusCanceled = finance.CommitmentStatusCanceled

	ChangeOrderStatusDraft            = finance.ChangeOrderStatusDraft
	ChangeOrderStatusPending          = finance.ChangeOrderStatusPending
	ChangeOrderStatusSent             = finance.ChangeOrderStatusSent
	ChangeOrderStatusApproved         = finance.ChangeOrderStatusApproved
	ChangeOrderStatusRequestedChanges = finance.ChangeOrderStatusRequestedChanges
	ChangeOrderStatusCancelled        = finance.ChangeOrderStatusCancelled

	VendorBillStatusPending  = finance.VendorBillStatusPending
	VendorBillStatusApproved = finance.VendorBillStatusApproved
	VendorBillStatusPartial  = finance.VendorBillStatusPartial
	VendorBillStatusPaid     = finance.VendorBillStatusPaid

	VarianceAlertTypeOverrun     = finance.VarianceAlertTypeOverrun
	VarianceAlertTypeApproaching = finance.VarianceAlertTypeApproaching

	VarianceAlertStatusOpen         = finance.VarianceAlertStatusOpen
	VarianceAlertStatusAcknowledged = finance.VarianceAlertStatusAcknowledged
	VarianceAlertStatusResolved     = finance.VarianceAlertStatusResolved

	ObservedPercentInfinite = finance.ObservedPercentInfinite
)

var (
	PendingChangeOrderStatuses = finance.PendingChangeOrderStatuses

	LegalBudgetTransition      = finance.LegalBudgetTransition
	LegalCommitmentTransition  = finance.LegalCommitmentTransition
	LegalChangeOrderTransition = finance.LegalChangeOrderTransition
	LegalVendorBillTransition  = finance.LegalVendorBillTransition
	LegalAlertTransition       = finance.LegalAlertTransition
)
