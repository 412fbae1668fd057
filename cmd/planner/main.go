package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shift-planner/internal/config"
	"shift-planner/internal/ics"
	"shift-planner/internal/models"
	"shift-planner/internal/repository"
	"shift-planner/internal/service"
	"shift-planner/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Monthly work-shift schedules and their calendar exports",
	Long: `planner manages monthly work-shift schedules for groups of employees
and exports them as iCalendar files. Schedules are stored locally;
exports are written as .ics files, one per employee or one aggregate
planning file.`,
	SilenceUsage: true,
}

func main() {
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func registerCommands() {
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(useCmd())
	rootCmd.AddCommand(employeeCmd())
	rootCmd.AddCommand(entryCmd())
	rootCmd.AddCommand(exportCmd())
}

// withService opens the SQLite-backed medium, wires the store and hands
// it to fn. The connection lives for one command invocation.
func withService(fn func(svc *service.ScheduleService) error) error {
	cfg := config.GetPlannerConfig()

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			logrus.Infof("Error closing database: %v", cerr)
		}
	}()

	kv, err := storage.NewGormKV(db)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	repo := repository.NewKVScheduleRepository(kv)
	return fn(service.NewScheduleService(repo))
}

// resolveSchedule loads the schedule for id, falling back to the current
// schedule when id is empty.
func resolveSchedule(svc *service.ScheduleService, id string) (*models.Schedule, error) {
	if id == "" {
		schedule, err := svc.GetCurrentSchedule()
		if err != nil {
			return nil, err
		}
		if schedule == nil {
			return nil, errors.New("no current schedule set; pass --schedule or run 'planner use'")
		}
		return schedule, nil
	}

	schedule, err := svc.GetSchedule(id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s not found", id)
	}
	return schedule, nil
}

func createCmd() *cobra.Command {
	var month, year int
	var names []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blank schedule for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(names) == 0 {
				return fmt.Errorf("--employee required at least once")
			}
			return withService(func(svc *service.ScheduleService) error {
				schedule := &models.Schedule{
					ID:        svc.GenerateID(),
					Month:     month,
					Year:      year,
					Employees: make([]models.Employee, 0, len(names)),
					Entries:   []models.ScheduleEntry{},
				}
				for _, name := range names {
					schedule.Employees = append(schedule.Employees, models.Employee{
						ID:   svc.GenerateID(),
						Name: name,
					})
				}
				if err := svc.SaveSchedule(schedule); err != nil {
					return err
				}
				if err := svc.SetCurrentSchedule(schedule.ID); err != nil {
					return err
				}
				fmt.Println(schedule.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "schedule month (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "schedule year")
	cmd.Flags().StringArrayVar(&names, "employee", nil, "employee name (repeatable)")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedules, err := svc.ListSchedules()
				if err != nil {
					return err
				}
				current, err := svc.GetCurrentSchedule()
				if err != nil {
					return err
				}
				for _, schedule := range schedules {
					marker := " "
					if current != nil && current.ID == schedule.ID {
						marker = "*"
					}
					fmt.Printf("%s %s  %s %d  (%d employees, %d entries)\n",
						marker, schedule.ID, ics.MonthName(schedule.Month), schedule.Year,
						len(schedule.Employees), len(schedule.Entries))
				}
				return nil
			})
		},
	}
}

func showCmd() *cobra.Command {
	var scheduleID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, scheduleID)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s %d\n", schedule.ID, ics.MonthName(schedule.Month), schedule.Year)
				for _, employee := range schedule.Employees {
					fmt.Printf("  %s  %s\n", employee.ID, employee.Name)
					for _, entry := range schedule.EntriesFor(employee.ID) {
						fmt.Printf("    day %2d: %s\n", entry.Date, entry.Code)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "schedule id (defaults to current)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <schedule-id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				return svc.DeleteSchedule(args[0])
			})
		},
	}
}

func useCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <schedule-id>",
		Short: "Set the current schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				return svc.SetCurrentSchedule(args[0])
			})
		},
	}
}

func employeeCmd() *cobra.Command {
	emp := &cobra.Command{Use: "employee", Short: "Manage a schedule's roster"}

	var scheduleID, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, scheduleID)
				if err != nil {
					return err
				}
				employee := models.Employee{ID: svc.GenerateID(), Name: name}
				if err := svc.AddEmployee(schedule.ID, employee); err != nil {
					return err
				}
				fmt.Println(employee.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&scheduleID, "schedule", "", "schedule id (defaults to current)")
	add.Flags().StringVar(&name, "name", "", "employee name")
	_ = add.MarkFlagRequired("name")

	var updScheduleID, updID, updName string
	update := &cobra.Command{
		Use:   "update",
		Short: "Rename an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, updScheduleID)
				if err != nil {
					return err
				}
				return svc.UpdateEmployee(schedule.ID, models.Employee{ID: updID, Name: updName})
			})
		},
	}
	update.Flags().StringVar(&updScheduleID, "schedule", "", "schedule id (defaults to current)")
	update.Flags().StringVar(&updID, "id", "", "employee id")
	update.Flags().StringVar(&updName, "name", "", "new employee name")
	_ = update.MarkFlagRequired("id")
	_ = update.MarkFlagRequired("name")

	var rmScheduleID, rmID string
	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove an employee and all their entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, rmScheduleID)
				if err != nil {
					return err
				}
				return svc.RemoveEmployee(schedule.ID, rmID)
			})
		},
	}
	remove.Flags().StringVar(&rmScheduleID, "schedule", "", "schedule id (defaults to current)")
	remove.Flags().StringVar(&rmID, "id", "", "employee id")
	_ = remove.MarkFlagRequired("id")

	emp.AddCommand(add, update, remove)
	return emp
}

func entryCmd() *cobra.Command {
	ent := &cobra.Command{Use: "entry", Short: "Manage schedule entries"}

	var scheduleID, employeeID, code string
	var date int
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the shift code for one employee and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, scheduleID)
				if err != nil {
					return err
				}
				return svc.AddEntry(schedule.ID, models.ScheduleEntry{
					EmployeeID: employeeID,
					Date:       date,
					Code:       code,
				})
			})
		},
	}
	set.Flags().StringVar(&scheduleID, "schedule", "", "schedule id (defaults to current)")
	set.Flags().StringVar(&employeeID, "employee", "", "employee id")
	set.Flags().IntVar(&date, "date", 0, "day of month (1-31)")
	set.Flags().StringVar(&code, "code", "", "shift code")
	_ = set.MarkFlagRequired("employee")
	_ = set.MarkFlagRequired("date")
	_ = set.MarkFlagRequired("code")

	var rmScheduleID, rmEmployeeID string
	var rmDate int
	remove := &cobra.Command{
		Use:   "remove",
		Short: "Clear the entry for one employee and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, rmScheduleID)
				if err != nil {
					return err
				}
				return svc.RemoveEntry(schedule.ID, rmEmployeeID, rmDate)
			})
		},
	}
	remove.Flags().StringVar(&rmScheduleID, "schedule", "", "schedule id (defaults to current)")
	remove.Flags().StringVar(&rmEmployeeID, "employee", "", "employee id")
	remove.Flags().IntVar(&rmDate, "date", 0, "day of month (1-31)")
	_ = remove.MarkFlagRequired("employee")
	_ = remove.MarkFlagRequired("date")

	ent.AddCommand(set, remove)
	return ent
}

func exportCmd() *cobra.Command {
	var scheduleID, employeeID string
	var all bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a schedule as .ics files",
		Long: `Export writes iCalendar files to EXPORT_DIR. By default one file per
employee is written; --employee limits the export to one employee and
--all writes a single aggregate planning file instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *service.ScheduleService) error {
				schedule, err := resolveSchedule(svc, scheduleID)
				if err != nil {
					return err
				}

				cfg := config.GetPlannerConfig()
				builder := ics.NewBuilder(cfg.CalendarProdID)

				var documents []*ics.Document
				switch {
				case all:
					documents = append(documents, builder.AggregateDocument(schedule))
				case employeeID != "":
					employee := schedule.EmployeeByID(employeeID)
					if employee == nil {
						return fmt.Errorf("employee %s not found in schedule", employeeID)
					}
					doc := builder.EmployeeDocument(schedule, *employee)
					if doc == nil {
						return fmt.Errorf("employee %s has no entries", employeeID)
					}
					documents = append(documents, doc)
				default:
					documents = builder.EmployeeDocuments(schedule)
				}

				for _, doc := range documents {
					for _, warning := range doc.Warnings {
						logrus.Warn(warning.String())
					}
					path := filepath.Join(cfg.ExportDir, doc.Filename)
					if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
						return fmt.Errorf("failed to write %s: %w", path, err)
					}
					fmt.Println(path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "schedule id (defaults to current)")
	cmd.Flags().StringVar(&employeeID, "employee", "", "export only this employee")
	cmd.Flags().BoolVar(&all, "all", false, "write one aggregate file for the whole roster")
	return cmd
}
