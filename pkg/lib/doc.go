// Package lib provides a Go SDK for the grading pipeline.
//
// This package allows applications to generate and deliver tasks, accept
// submissions, and read evaluation results without shelling out to the grader
// CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Deliver the first round.
//	report, err := client.Distribute(ctx, lib.DistributeOpts{
//	    Round:       1,
//	    CallbackURL: "https://grader.example.com/api/submit",
//	    Participants: []lib.Participant{
//	        {Email: "student@example.com", Endpoint: "https://student.example.com/api/build", Secret: "s3cr3t"},
//	    },
//	})
//
//	// Accept a submission.
//	status, err := client.Submit(ctx, lib.Submission{...})
//
// # Storage
//
// Two storage types are available:
//
//   - [StorageSQLite]: the same SQLite database the CLI uses (default).
//   - [StorageMemory]: an in-memory store, useful for tests and dry runs.
//
// # Errors
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: Resource does not exist.
//   - [ErrAlreadyExists]: Resource already exists.
//   - [ErrNotValid]: Invalid input, or a submission not matching any issued task.
package lib
