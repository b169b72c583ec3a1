package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/hardhatdata/wip.git/internal/finance"
	"github.com/hardhatdata/wip.git/internal/model"
	"github.com/hardhatdata/wip.git/internal/store"
)

func handleChangeOrders(ctx context.Context, db *sql.DB, args []string) {
	if len(args) < 1 {
		fmt.Println("Error: co requires a subcommand")
		fmt.Println("Usage: wip co list <job-no>")
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		if len(args) < 2 {
			fmt.Println("Error: co list requires a job number")
			fmt.Println("Usage: wip co list <job-no>")
			os.Exit(1)
		}
		listChangeOrders(ctx, db, args[1])
	case "add":
		if len(args) < 2 {
			fmt.Println("Error: co add requires a job number")
			fmt.Println("Usage: wip co add <job-no> [--contract-labor N] [--budget-labor N] [--status pending] [--desc TEXT]")
			os.Exit(1)
		}
		addChangeOrder(ctx, db, args[1], args[2:])
	default:
		fmt.Printf("Unknown co subcommand: %s\n", args[0])
		fmt.Println("Usage: wip co list <job-no>")
		fmt.Println("       wip co add <job-no> [flags]")
		os.Exit(1)
	}
}

// addChangeOrder records a change order against an existing job. The
// store assigns the next sequential number unless --number forces one.
func addChangeOrder(ctx context.Context, db *sql.DB, jobNo string, args []string) {
	st := store.New(db)

	job, err := st.GetJobByNo(ctx, jobNo)
	if err != nil {
		fmt.Printf("Error: job %s not found: %v\n", jobNo, err)
		os.Exit(1)
	}

	co := model.ChangeOrder{
		JobID:  job.ID,
		Status: model.COStatusPending,
		COType: job.JobType,
	}

	co.Contract.Labor, args = parseDecimalFlag(args, "contract-labor")
	co.Contract.Material, args = parseDecimalFlag(args, "contract-material")
	co.Contract.Other, args = parseDecimalFlag(args, "contract-other")
	co.Budget.Labor, args = parseDecimalFlag(args, "budget-labor")
	co.Budget.Material, args = parseDecimalFlag(args, "budget-material")
	co.Budget.Other, args = parseDecimalFlag(args, "budget-other")

	var status, coType, desc string
	status, args = parseStringFlag(args, "status", string(model.COStatusPending))
	coType, args = parseStringFlag(args, "type", string(job.JobType))
	desc, args = parseStringFlag(args, "desc", "")
	co.CONumber, _ = parseIntFlag(args, "number", 0)

	if !model.COStatus(status).IsValid() {
		fmt.Printf("Error: invalid status %q (expected pending, approved, rejected, or completed)\n", status)
		os.Exit(1)
	}
	co.Status = model.COStatus(status)

	if !model.JobType(coType).IsValid() {
		fmt.Printf("Error: invalid type %q (expected fixed-price or time-material)\n", coType)
		os.Exit(1)
	}
	co.COType = model.JobType(coType)

	if desc != "" {
		co.Description = &desc
	}

	created, err := st.CreateChangeOrder(ctx, co)
	if err != nil {
		fmt.Printf("Error creating change order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Created CO #%d for job %s (%s)\n", created.CONumber, job.JobNo, job.JobName)
	fmt.Printf("   Status: %s, contract value $%s, budget $%s\n",
		created.Status, created.Contract.Total().StringFixed(2), created.Budget.Total().StringFixed(2))
	if created.Status == model.COStatusPending {
		fmt.Println("💡 Pending change orders are listed separately and do not change job totals until approved")
	}
}

func listChangeOrders(ctx context.Context, db *sql.DB, jobNo string) {
	st := store.New(db)

	job, err := st.GetJobByNo(ctx, jobNo)
	if err != nil {
		fmt.Printf("Error: job %s not found: %v\n", jobNo, err)
		return
	}

	cos, err := st.ListChangeOrders(ctx, job.ID)
	if err != nil {
		fmt.Printf("Error loading change orders: %v\n", err)
		return
	}

	if len(cos) == 0 {
		fmt.Printf("No change orders for job %s (%s)\n", job.JobNo, job.JobName)
		fmt.Printf("💡 Add one with: wip co add %s --contract-labor 10000\n", job.JobNo)
		return
	}

	fmt.Printf("Change Orders for %s (%s)\n", job.JobNo, job.JobName)
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%-4s  %-10s  %13s  %13s  %13s  %-30s\n",
		"CO#", "Status", "Contract", "Budget", "Costs", "Description")
	fmt.Println("────────────────────────────────────────────────────────────────────────────────────────")

	for _, co := range cos {
		statusIcon := "⏳"
		switch co.Status {
		case model.COStatusApproved, model.COStatusCompleted:
			statusIcon = "✅"
		case model.COStatusRejected:
			statusIcon = "❌"
		}

		desc := ""
		if co.Description != nil {
			desc = *co.Description
		}
		if len(desc) > 30 {
			desc = desc[:27] + "..."
		}

		fmt.Printf("%-4d  %s %-8s  $%12s  $%12s  $%12s  %-30s\n",
			co.CONumber,
			statusIcon,
			co.Status,
			co.Contract.Total().StringFixed(2),
			co.Budget.Total().StringFixed(2),
			co.Costs.Total().StringFixed(2),
			desc,
		)
	}
	fmt.Println("════════════════════════════════════════════════════════════════════════════════════════")

	counts := finance.CountByStatus(cos)
	approved := finance.SumApprovedContract(cos).Total()
	pending := finance.PendingContractTotal(cos)

	fmt.Printf("Total: %d change order(s)", len(cos))
	if n := counts[model.COStatusApproved] + counts[model.COStatusCompleted]; n > 0 {
		fmt.Printf(", %d approved ($%s added to contract)", n, approved.StringFixed(2))
	}
	if counts[model.COStatusPending] > 0 {
		fmt.Printf(", %d pending ($%s not yet included)", counts[model.COStatusPending], pending.StringFixed(2))
	}
	fmt.Println()

	if next, err := st.NextCONumber(ctx, job.ID); err == nil {
		fmt.Printf("💡 Next change order will be CO #%d\n", next)
	}
}
