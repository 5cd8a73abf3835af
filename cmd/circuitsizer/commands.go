package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/piwi3910/CircuitSizer/internal/database"
	"github.com/piwi3910/CircuitSizer/internal/engine"
	"github.com/piwi3910/CircuitSizer/internal/export"
	"github.com/piwi3910/CircuitSizer/internal/importer"
	"github.com/piwi3910/CircuitSizer/internal/model"
	"github.com/piwi3910/CircuitSizer/internal/project"
	"github.com/piwi3910/CircuitSizer/internal/repository"
	"github.com/piwi3910/CircuitSizer/internal/session"
)

// errUsage signals that usage text was already printed.
var errUsage = errors.New("usage")

var errNoRooms = errors.New("no rooms to dimension")

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "room":
		return a.runRoom(ctx, rest)
	case "calc":
		return a.runCalc(ctx, rest)
	case "compare":
		return a.runCompare(ctx, rest)
	case "template":
		return a.runTemplate(ctx, rest)
	case "backup":
		return a.runBackup(rest)
	case "archive":
		return a.runArchive(ctx, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		usage()
		return errUsage
	}
}

func subcommand(args []string, group string, names ...string) (string, []string, error) {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: circuitsizer %s %s\n", group, strings.Join(names, "|"))
		return "", nil, errUsage
	}
	for _, n := range names {
		if args[0] == n {
			return n, args[1:], nil
		}
	}
	fmt.Fprintf(os.Stderr, "Unknown %s command %q (want %s)\n", group, args[0], strings.Join(names, "|"))
	return "", nil, errUsage
}

// ─── room ──────────────────────────────────────────────────

func (a *app) runRoom(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "room", "add", "list", "clear", "undo", "redo", "import")
	if err != nil {
		return err
	}

	sess, err := a.sessions.LoadOrNew(ctx, a.sessionID)
	if err != nil {
		return err
	}

	switch sub {
	case "add":
		room, err := a.parseRoomFlags(rest)
		if err != nil {
			return err
		}
		if err := sess.Add(room); err != nil {
			return err
		}
		fmt.Printf("Added %s (%.2f x %.2f m)\n", room.Name, room.Width, room.Length)

	case "list":
		printRooms(os.Stdout, sess.Rooms())
		printHistory(os.Stdout, sess.CanUndo(), sess.CanRedo())
		return nil

	case "clear":
		sess.Clear()
		fmt.Println("Room list cleared")

	case "undo":
		label, ok := sess.Undo()
		if !ok {
			fmt.Println("Nothing to undo")
			return nil
		}
		fmt.Printf("Undid: %s\n", label)

	case "redo":
		label, ok := sess.Redo()
		if !ok {
			fmt.Println("Nothing to redo")
			return nil
		}
		fmt.Printf("Redid: %s\n", label)

	case "import":
		if err := a.importRooms(sess, rest); err != nil {
			return err
		}
	}

	return a.sessions.Save(ctx, sess)
}

func (a *app) parseRoomFlags(args []string) (model.Room, error) {
	lightingV, outletV := a.defaultVoltages()

	fs := flag.NewFlagSet("room add", flag.ContinueOnError)
	name := fs.String("name", "", "Room name, e.g. Cozinha")
	width := fs.Float64("width", 0, "Width in metres")
	length := fs.Float64("length", 0, "Length in metres")
	lv := fs.Int("lighting-v", lightingV, "Lighting voltage (127 or 220)")
	ov := fs.Int("outlet-v", outletV, "Outlet voltage (127 or 220)")
	device := fs.String("device", "", "Fixed appliance name; looked up in the catalog when -power is 0")
	power := fs.Float64("power", 0, "Appliance power in W")
	deviceV := fs.Int("device-v", 0, "Appliance voltage (default: catalog or preferences)")
	if err := fs.Parse(args); err != nil {
		return model.Room{}, errUsage
	}

	room := model.NewRoom(strings.TrimSpace(*name), *width, *length, *lv, *ov)
	if *device == "" {
		return room, nil
	}

	d := model.Device{Name: *device, PowerW: *power, Voltage: a.appConfig.DefaultDeviceVoltage}
	if *power == 0 {
		catalog, err := project.LoadCatalog(a.catalogPath())
		if err != nil {
			return model.Room{}, fmt.Errorf("failed to load catalog: %w", err)
		}
		preset := catalog.FindByName(*device)
		if preset == nil {
			return model.Room{}, fmt.Errorf("device %q is not in the catalog; pass -power", *device)
		}
		d = preset.ToDevice()
	}
	if *deviceV != 0 {
		d.Voltage = *deviceV
	}
	room.Device = &d
	return room, nil
}

func (a *app) importRooms(sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("room import", flag.ContinueOnError)
	scale := fs.Float64("scale", 1, "Metres per DXF drawing unit, e.g. 0.001 for millimetre drawings")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: circuitsizer room import [-scale f] <file.csv|file.xlsx|file.dxf>")
		return errUsage
	}

	catalog, err := project.LoadCatalog(a.catalogPath())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	opts := importer.DefaultOptions()
	opts.LightingVoltage, opts.OutletVoltage = a.defaultVoltages()
	opts.Catalog = &catalog
	opts.Scale = *scale

	result := importer.ImportFile(fs.Arg(0), opts)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}
	for _, r := range result.Rooms {
		if err := sess.Add(r); err != nil {
			return err
		}
	}
	a.log.Info("Imported rooms",
		zap.String("file", fs.Arg(0)),
		zap.Int("rooms", len(result.Rooms)),
		zap.Int("errors", len(result.Errors)),
	)
	fmt.Printf("Imported %d rooms\n", len(result.Rooms))
	if len(result.Rooms) == 0 && len(result.Errors) > 0 {
		return fmt.Errorf("no rooms imported from %s", fs.Arg(0))
	}
	return nil
}

// ─── calc / compare ────────────────────────────────────────

// settingsFlags registers the design overrides shared by calc and compare.
func settingsFlags(fs *flag.FlagSet, base model.DesignSettings) *model.DesignSettings {
	s := base
	fs.IntVar(&s.AmbientTempC, "temp", base.AmbientTempC, "Ambient temperature in °C")
	fs.Func("insulation", "Conductor insulation: PVC or EPR_XLPE", func(v string) error {
		s.Insulation = model.Insulation(strings.ToUpper(v))
		return nil
	})
	fs.StringVar(&s.Method, "method", base.Method, "Installation method, e.g. B1")
	fs.IntVar(&s.LightingGrouping, "lighting-grouping", base.LightingGrouping, "Circuits grouped with the lighting circuit")
	fs.IntVar(&s.OutletGrouping, "outlet-grouping", base.OutletGrouping, "Circuits grouped with each outlet circuit")
	return &s
}

// roomsFor returns the rooms of a project file, or the session's rooms.
func (a *app) roomsFor(ctx context.Context, projectPath string) ([]model.Room, *model.Project, error) {
	if projectPath != "" {
		p, err := project.LoadProject(projectPath)
		if err != nil {
			return nil, nil, err
		}
		return p.Rooms, &p, nil
	}
	sess, err := a.sessions.LoadOrNew(ctx, a.sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess.Rooms(), nil, nil
}

func (a *app) runCalc(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	projectPath := fs.String("project", "", "Project file to dimension instead of the session rooms")
	name := fs.String("name", "", "Project name used in reports and the archive")
	pdfPath := fs.String("pdf", "", "Write the design memorial PDF to this path")
	xlsxPath := fs.String("xlsx", "", "Write the schedule workbook to this path")
	labelsPath := fs.String("labels", "", "Write QR panel labels PDF to this path")
	savePath := fs.String("save", "", "Save rooms, settings and schedule as a project file")
	archive := fs.Bool("archive", false, "Archive the schedule in PostgreSQL")
	base := a.baseSettings()
	settings := settingsFlags(fs, base)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rooms, proj, err := a.roomsFor(ctx, *projectPath)
	if err != nil {
		return err
	}
	if proj != nil {
		useProjectSettings(fs, args, settings, proj.Settings)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if len(rooms) == 0 {
		return errNoRooms
	}

	projectName := *name
	if projectName == "" && proj != nil {
		projectName = proj.Name
	}
	if projectName == "" {
		projectName = a.sessionID
	}

	sched := engine.New(*settings).Dimension(rooms)
	a.log.Info("Dimensioned rooms",
		zap.String("project", projectName),
		zap.Int("rooms", len(rooms)),
		zap.Int("circuits", len(sched.Circuits)),
		zap.Int("failing", len(sched.Circuits)-sched.CountByStatus(model.StatusOK)),
	)

	printSchedule(os.Stdout, sched)

	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, sched, projectName); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		fmt.Printf("Memorial written to %s\n", *pdfPath)
	}
	if *xlsxPath != "" {
		if err := export.ExportExcel(*xlsxPath, sched, projectName); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
		fmt.Printf("Workbook written to %s\n", *xlsxPath)
	}
	if *labelsPath != "" {
		if err := export.ExportLabels(*labelsPath, sched, projectName); err != nil {
			return fmt.Errorf("failed to export labels: %w", err)
		}
		fmt.Printf("Labels written to %s\n", *labelsPath)
	}
	if *savePath != "" {
		p := model.Project{Name: projectName, Rooms: model.CloneRooms(rooms), Settings: *settings, Schedule: &sched}
		if p.Rooms == nil {
			p.Rooms = []model.Room{}
		}
		if err := project.SaveProject(*savePath, p); err != nil {
			return err
		}
		a.appConfig.AddRecentProject(*savePath)
		if err := project.SaveAppConfig(a.appConfigPath, a.appConfig); err != nil {
			a.log.Warn("Failed to record recent project", zap.Error(err))
		}
		fmt.Printf("Project saved to %s\n", *savePath)
	}
	if *archive {
		id, err := a.archiveSchedule(ctx, projectName, sched)
		if err != nil {
			return err
		}
		fmt.Printf("Archived as %s\n", id)
	}
	return nil
}

// useProjectSettings makes the project's settings the base and re-applies
// the flags given on the command line on top of them.
func useProjectSettings(fs *flag.FlagSet, args []string, settings *model.DesignSettings, saved model.DesignSettings) {
	*settings = saved
	// Parse only sets flags present in args.
	_ = fs.Parse(args)
}

func (a *app) runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	projectPath := fs.String("project", "", "Project file to compare instead of the session rooms")
	settings := settingsFlags(fs, a.baseSettings())
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rooms, proj, err := a.roomsFor(ctx, *projectPath)
	if err != nil {
		return err
	}
	if proj != nil {
		useProjectSettings(fs, args, settings, proj.Settings)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if len(rooms) == 0 {
		return errNoRooms
	}

	results := engine.CompareScenarios(engine.BuildDefaultScenarios(*settings), rooms)
	printComparison(os.Stdout, results)
	return nil
}

// ─── template ──────────────────────────────────────────────

func (a *app) runTemplate(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "template", "list", "save", "use")
	if err != nil {
		return err
	}

	path := a.templatesPath()
	store, err := project.LoadTemplates(path)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	switch sub {
	case "list":
		printTemplates(os.Stdout, store)
		return nil

	case "save":
		fs := flag.NewFlagSet("template save", flag.ContinueOnError)
		name := fs.String("name", "", "Template name")
		desc := fs.String("desc", "", "Template description")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if *name == "" {
			return fmt.Errorf("template name is required")
		}
		sess, err := a.sessions.LoadOrNew(ctx, a.sessionID)
		if err != nil {
			return err
		}
		if sess.Len() == 0 {
			return fmt.Errorf("session %q has no rooms to save", a.sessionID)
		}
		if old := store.FindByName(*name); old != nil {
			store.Remove(old.ID)
		}
		store.Add(model.NewProjectTemplate(*name, *desc, sess.Rooms(), a.baseSettings()))
		if err := project.SaveTemplates(path, store); err != nil {
			return fmt.Errorf("failed to save templates: %w", err)
		}
		fmt.Printf("Saved template %q with %d rooms\n", *name, sess.Len())
		return nil

	default: // use
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: circuitsizer template use <name>")
			return errUsage
		}
		tmpl := store.FindByName(rest[0])
		if tmpl == nil {
			return fmt.Errorf("template %q not found", rest[0])
		}
		sess, err := a.sessions.LoadOrNew(ctx, a.sessionID)
		if err != nil {
			return err
		}
		sess.Clear()
		for _, r := range tmpl.ToProject(tmpl.Name).Rooms {
			if err := sess.Add(r); err != nil {
				return err
			}
		}
		if err := a.sessions.Save(ctx, sess); err != nil {
			return err
		}
		fmt.Printf("Loaded %d rooms from template %q\n", sess.Len(), tmpl.Name)
		return nil
	}
}

// ─── backup ────────────────────────────────────────────────

func (a *app) runBackup(args []string) error {
	sub, rest, err := subcommand(args, "backup", "export", "import")
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: circuitsizer backup %s <file.json>\n", sub)
		return errUsage
	}
	path := rest[0]

	if sub == "export" {
		templates, err := project.LoadTemplates(a.templatesPath())
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		catalog, err := project.LoadCatalog(a.catalogPath())
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		if err := project.ExportAllData(path, a.appConfig, templates, catalog); err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil
	}

	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(a.appConfigPath, backup.Config); err != nil {
		return fmt.Errorf("failed to restore preferences: %w", err)
	}
	if err := project.SaveTemplates(a.templatesPath(), backup.Templates); err != nil {
		return fmt.Errorf("failed to restore templates: %w", err)
	}
	if err := project.SaveCatalog(a.catalogPath(), backup.Catalog); err != nil {
		return fmt.Errorf("failed to restore catalog: %w", err)
	}
	a.log.Info("Restored backup",
		zap.String("file", path),
		zap.String("version", backup.Version),
		zap.Int("templates", len(backup.Templates.Templates)),
		zap.Int("devices", len(backup.Catalog.Devices)),
	)
	fmt.Printf("Restored backup from %s (created %s)\n", path, backup.CreatedAt)
	return nil
}

// ─── archive ───────────────────────────────────────────────

func (a *app) openArchive(ctx context.Context) (*repository.ScheduleRepository, func(), error) {
	if !a.cfg.Database.Enabled() {
		return nil, nil, fmt.Errorf("archive database is not configured (set database.host)")
	}
	db, err := database.NewPostgresDB(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			a.log.Warn("Failed to close database", zap.Error(err))
		}
	}
	repo := repository.NewScheduleRepository(db, a.log)
	if err := repo.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return repo, cleanup, nil
}

func (a *app) archiveSchedule(ctx context.Context, projectName string, sched model.Schedule) (string, error) {
	repo, cleanup, err := a.openArchive(ctx)
	if err != nil {
		return "", err
	}
	defer cleanup()
	return repo.Save(ctx, projectName, sched)
}

func (a *app) runArchive(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "archive", "list", "show", "delete")
	if err != nil {
		return err
	}

	repo, cleanup, err := a.openArchive(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	switch sub {
	case "list":
		fs := flag.NewFlagSet("archive list", flag.ContinueOnError)
		limit := fs.Int("limit", 20, "Maximum number of schedules")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		list, err := repo.List(ctx, *limit)
		if err != nil {
			return err
		}
		printArchive(os.Stdout, list)
		return nil

	case "show":
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: circuitsizer archive show <id>")
			return errUsage
		}
		rec, err := repo.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s  %s\n\n", rec.ID, rec.ProjectName, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		printSchedule(os.Stdout, rec.Schedule)
		return nil

	default: // delete
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: circuitsizer archive delete <id>")
			return errUsage
		}
		if err := repo.Delete(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", rest[0])
		return nil
	}
}
