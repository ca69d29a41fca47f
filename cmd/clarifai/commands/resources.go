package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clarifai-go/internal/client"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// appRunner runs fn with a client built from the resolved settings.
func appRunner(fn func(cmd *cobra.Command, args []string, app *client.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		app, closer, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer closer()

		cmd.SetContext(ctx)

		return fn(cmd, args, app)
	}
}

func addListFlags(cmd *cobra.Command, opts *clarifai.ListOptions) {
	cmd.Flags().IntVar(&opts.Page, "page", constants.DefaultPage, "page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", constants.DefaultPerPage, "results per page")
}

// NewModelsCommand creates the models command group.
func NewModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model"},
		Short:   "Manage models",
		Long:    "List, show, and run predictions with models",
	}

	cmd.AddCommand(newModelsListCommand())
	cmd.AddCommand(newModelsGetCommand())
	cmd.AddCommand(newModelsPredictCommand())
	cmd.AddCommand(newModelsModerateCommand())

	return cmd
}

func newModelsListCommand() *cobra.Command {
	opts := &clarifai.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models",
		Long:  "List the models of the scoped app",
		RunE: appRunner(func(cmd *cobra.Command, _ []string, app *client.App) error {
			models, err := app.Models().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			return printResult(cmd.OutOrStdout(), models.Models, func(table *tablewriter.Table) error {
				table.Header("ID", "Name", "App", "Created")

				for _, model := range models.Models {
					_ = table.Append(model.ID, orNotAvailable(model.Name), orNotAvailable(model.AppID), formatTime(model.CreatedAt))
				}

				return nil
			})
		}),
	}

	addListFlags(cmd, opts)

	return cmd
}

func newModelsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get MODEL_ID",
		Short: "Get model details",
		Long:  "Display detailed information about a specific model",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			model, err := app.Models().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get model: %w", err)
			}

			return printResult(cmd.OutOrStdout(), model, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")
				_ = table.Append("ID", model.ID)
				_ = table.Append("Name", orNotAvailable(model.Name))
				_ = table.Append("App", orNotAvailable(model.AppID))
				_ = table.Append("Created", formatTime(model.CreatedAt))

				if model.ModelVersion != nil {
					_ = table.Append("Version", model.ModelVersion.ID)
				}

				return nil
			})
		}),
	}
}

func newModelsPredictCommand() *cobra.Command {
	var imageURLs []string

	cmd := &cobra.Command{
		Use:   "predict MODEL_ID --image-url URL",
		Short: "Predict concepts in images",
		Long:  "Run a model over one or more images referenced by URL",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			inputs := make([]clarifai.Input, 0, len(imageURLs))
			for _, imageURL := range imageURLs {
				inputs = append(inputs, clarifai.Input{Data: clarifai.InputData{Image: &clarifai.Image{URL: imageURL}}})
			}

			resp, err := app.Models().Predict(cmd.Context(), args[0], inputs)
			if err != nil {
				return fmt.Errorf("failed to predict: %w", err)
			}

			return printResult(cmd.OutOrStdout(), resp.Outputs, func(table *tablewriter.Table) error {
				return appendPredictions(table, resp.Outputs)
			})
		}),
	}

	cmd.Flags().StringSliceVar(&imageURLs, "image-url", nil, "image URL (repeatable)")
	_ = cmd.MarkFlagRequired("image-url")

	return cmd
}

func newModelsModerateCommand() *cobra.Command {
	var imageURL string

	cmd := &cobra.Command{
		Use:   "moderate MODEL_ID --image-url URL",
		Short: "Run a moderation model",
		Long:  "Run a model of the hosted moderation solution over an image",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			resp, err := app.Solutions().Moderation().Predict(cmd.Context(), args[0], imageURL)
			if err != nil {
				return fmt.Errorf("failed to moderate: %w", err)
			}

			return printResult(cmd.OutOrStdout(), resp.Outputs, func(table *tablewriter.Table) error {
				return appendPredictions(table, resp.Outputs)
			})
		}),
	}

	cmd.Flags().StringVar(&imageURL, "image-url", "", "image URL")
	_ = cmd.MarkFlagRequired("image-url")

	return cmd
}

func appendPredictions(table *tablewriter.Table, outputs []clarifai.Output) error {
	table.Header("Image", "Concept", "Value")

	for _, output := range outputs {
		image := constants.NotAvailable
		if output.Input.Data.Image != nil {
			image = output.Input.Data.Image.URL
		}

		for _, concept := range output.Data.Concepts {
			_ = table.Append(image, concept.Name, strconv.FormatFloat(concept.Value, 'f', 4, 64))
		}
	}

	return nil
}

// NewInputsCommand creates the inputs command group.
func NewInputsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inputs",
		Aliases: []string{"input"},
		Short:   "Manage inputs",
		Long:    "List, show, add, and delete inputs",
	}

	cmd.AddCommand(newInputsListCommand())
	cmd.AddCommand(newInputsGetCommand())
	cmd.AddCommand(newInputsAddCommand())
	cmd.AddCommand(newInputsDeleteCommand())

	return cmd
}

func newInputsListCommand() *cobra.Command {
	opts := &clarifai.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inputs",
		Long:  "List the inputs of the scoped app",
		RunE: appRunner(func(cmd *cobra.Command, _ []string, app *client.App) error {
			inputs, err := app.Inputs().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list inputs: %w", err)
			}

			return printResult(cmd.OutOrStdout(), inputs.Inputs, func(table *tablewriter.Table) error {
				return appendInputs(table, inputs.Inputs)
			})
		}),
	}

	addListFlags(cmd, opts)

	return cmd
}

func newInputsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get INPUT_ID",
		Short: "Get input details",
		Long:  "Display detailed information about a specific input",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			input, err := app.Inputs().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get input: %w", err)
			}

			return printResult(cmd.OutOrStdout(), input, func(table *tablewriter.Table) error {
				return appendInputs(table, []clarifai.Input{*input})
			})
		}),
	}
}

func newInputsAddCommand() *cobra.Command {
	var (
		imageURLs []string
		concepts  []string
	)

	cmd := &cobra.Command{
		Use:   "add --image-url URL",
		Short: "Add inputs",
		Long:  "Add one input per image URL, optionally tagged with concepts",
		RunE: appRunner(func(cmd *cobra.Command, _ []string, app *client.App) error {
			tags := make([]clarifai.Concept, 0, len(concepts))
			for _, concept := range concepts {
				tags = append(tags, clarifai.Concept{ID: concept, Value: 1})
			}

			inputs := make([]clarifai.Input, 0, len(imageURLs))
			for _, imageURL := range imageURLs {
				inputs = append(inputs, clarifai.Input{Data: clarifai.InputData{
					Image:    &clarifai.Image{URL: imageURL},
					Concepts: tags,
				}})
			}

			created, err := app.Inputs().Create(cmd.Context(), inputs)
			if err != nil {
				return fmt.Errorf("failed to add inputs: %w", err)
			}

			return printResult(cmd.OutOrStdout(), created.Inputs, func(table *tablewriter.Table) error {
				return appendInputs(table, created.Inputs)
			})
		}),
	}

	cmd.Flags().StringSliceVar(&imageURLs, "image-url", nil, "image URL (repeatable)")
	cmd.Flags().StringSliceVar(&concepts, "concept", nil, "concept ID to tag every input with (repeatable)")
	_ = cmd.MarkFlagRequired("image-url")

	return cmd
}

func newInputsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete INPUT_ID...",
		Short: "Delete inputs",
		Long:  "Delete one or more inputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			var err error

			if len(args) == 1 {
				err = app.Inputs().Delete(cmd.Context(), args[0])
			} else {
				err = app.Inputs().(*client.InputsClient).DeleteMany(cmd.Context(), args)
			}

			if err != nil {
				return fmt.Errorf("failed to delete inputs: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d input(s)\n", len(args))

			return err
		}),
	}
}

func appendInputs(table *tablewriter.Table, inputs []clarifai.Input) error {
	table.Header("ID", "Image", "Concepts", "Created")

	for _, input := range inputs {
		image := constants.NotAvailable
		if input.Data.Image != nil {
			image = orNotAvailable(input.Data.Image.URL)
		}

		_ = table.Append(input.ID, image, strconv.Itoa(len(input.Data.Concepts)), formatTime(input.CreatedAt))
	}

	return nil
}

// NewConceptsCommand creates the concepts command group.
func NewConceptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "concepts",
		Aliases: []string{"concept"},
		Short:   "Manage concepts",
		Long:    "List, show, and search concepts",
	}

	cmd.AddCommand(newConceptsListCommand())
	cmd.AddCommand(newConceptsGetCommand())
	cmd.AddCommand(newConceptsSearchCommand())

	return cmd
}

func newConceptsListCommand() *cobra.Command {
	opts := &clarifai.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List concepts",
		Long:  "List the concepts of the scoped app",
		RunE: appRunner(func(cmd *cobra.Command, _ []string, app *client.App) error {
			concepts, err := app.Concepts().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list concepts: %w", err)
			}

			return printConcepts(cmd, concepts.Concepts)
		}),
	}

	addListFlags(cmd, opts)

	return cmd
}

func newConceptsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CONCEPT_ID",
		Short: "Get concept details",
		Long:  "Display a specific concept",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			concept, err := app.Concepts().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get concept: %w", err)
			}

			return printConcepts(cmd, []clarifai.Concept{*concept})
		}),
	}
}

func newConceptsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search NAME",
		Short: "Search concepts by name",
		Long:  "Search concepts by name; '*' matches any suffix",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			concepts, err := app.Concepts().Search(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to search concepts: %w", err)
			}

			return printConcepts(cmd, concepts.Concepts)
		}),
	}
}

func printConcepts(cmd *cobra.Command, concepts []clarifai.Concept) error {
	return printResult(cmd.OutOrStdout(), concepts, func(table *tablewriter.Table) error {
		table.Header("ID", "Name", "App")

		for _, concept := range concepts {
			_ = table.Append(concept.ID, orNotAvailable(concept.Name), orNotAvailable(concept.AppID))
		}

		return nil
	})
}

// NewWorkflowsCommand creates the workflows command group.
func NewWorkflowsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflows",
		Aliases: []string{"workflow"},
		Short:   "Manage workflows",
		Long:    "List, run, and delete workflows",
	}

	cmd.AddCommand(newWorkflowsListCommand())
	cmd.AddCommand(newWorkflowsPredictCommand())
	cmd.AddCommand(newWorkflowsDeleteCommand())

	return cmd
}

func newWorkflowsListCommand() *cobra.Command {
	opts := &clarifai.ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		Long:  "List the workflows of the scoped app",
		RunE: appRunner(func(cmd *cobra.Command, _ []string, app *client.App) error {
			workflows, err := app.Workflows().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list workflows: %w", err)
			}

			return printResult(cmd.OutOrStdout(), workflows.Workflows, func(table *tablewriter.Table) error {
				table.Header("ID", "Nodes", "Created")

				for _, workflow := range workflows.Workflows {
					_ = table.Append(workflow.ID, strconv.Itoa(len(workflow.Nodes)), formatTime(workflow.CreatedAt))
				}

				return nil
			})
		}),
	}

	addListFlags(cmd, opts)

	return cmd
}

func newWorkflowsPredictCommand() *cobra.Command {
	var imageURLs []string

	cmd := &cobra.Command{
		Use:   "predict WORKFLOW_ID --image-url URL",
		Short: "Run a workflow",
		Long:  "Run a workflow over one or more images referenced by URL",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			inputs := make([]clarifai.Input, 0, len(imageURLs))
			for _, imageURL := range imageURLs {
				inputs = append(inputs, clarifai.Input{Data: clarifai.InputData{Image: &clarifai.Image{URL: imageURL}}})
			}

			results, err := app.Workflow().Predict(cmd.Context(), args[0], inputs)
			if err != nil {
				return fmt.Errorf("failed to run workflow: %w", err)
			}

			return printResult(cmd.OutOrStdout(), results.Results, func(table *tablewriter.Table) error {
				var outputs []clarifai.Output
				for _, result := range results.Results {
					outputs = append(outputs, result.Outputs...)
				}

				return appendPredictions(table, outputs)
			})
		}),
	}

	cmd.Flags().StringSliceVar(&imageURLs, "image-url", nil, "image URL (repeatable)")
	_ = cmd.MarkFlagRequired("image-url")

	return cmd
}

func newWorkflowsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete WORKFLOW_ID",
		Short: "Delete a workflow",
		Long:  "Delete a workflow by ID",
		Args:  cobra.ExactArgs(1),
		RunE: appRunner(func(cmd *cobra.Command, args []string, app *client.App) error {
			err := app.Workflows().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete workflow: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted workflow %s\n", args[0])

			return err
		}),
	}
}
