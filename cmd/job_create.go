/***************************************************************
 *
 * Copyright (C) 2026, Pelican Project, Morgridge Institute for Research
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pelicanplatform/stsctl/report"
	"github.com/pelicanplatform/stsctl/transfer"
)

var (
	jobCreateCmd = &cobra.Command{
		Use:   "create <project_id> <source> <sink>",
		Short: "Create a transfer job",
		Long: `Create a transfer job copying <source> into <sink>. The source is a
gs:// or s3:// bucket URL; the sink must be a gs:// bucket.

Exactly one schedule is required: --daily HH:MM repeats the job every day
at that UTC time, --once-in MINUTES runs it a single time.

S3 sources need AWS credentials. Without --aws-access-key-id and
--aws-secret-access-key they come from the standard AWS credential chain
(environment, shared config files, instance roles).`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         jobCreateMain,
	}

	createDaily           string
	createOnceIn          int
	createDescription     string
	createIncludePrefixes []string
	createExcludePrefixes []string
	createMinElapsed      int
	createAwsKeyID        string
	createAwsSecret       string

	// timeNow is replaced in tests to pin the kickoff time
	timeNow = time.Now
)

func init() {
	flags := jobCreateCmd.Flags()
	flags.StringVar(&createDaily, "daily", "", "Run the job every day at this UTC time (HH:MM)")
	flags.IntVar(&createOnceIn, "once-in", 0, "Run the job once, this many minutes from now")
	flags.StringVar(&createDescription, "description", "stsctl transfer", "Description of the job; the kickoff time is appended")
	flags.StringSliceVar(&createIncludePrefixes, "include-prefix", nil, "Only copy objects with these prefixes")
	flags.StringSliceVar(&createExcludePrefixes, "exclude-prefix", nil, "Skip objects with these prefixes")
	flags.IntVar(&createMinElapsed, "elapsed-last-modification", 0, "Skip objects modified less than this many seconds ago")
	flags.StringVar(&createAwsKeyID, "aws-access-key-id", "", "AWS access key id for an S3 source")
	flags.StringVar(&createAwsSecret, "aws-secret-access-key", "", "AWS secret access key for an S3 source")
	jobCmd.AddCommand(jobCreateCmd)
}

// kickoffFromFlags checks that exactly one schedule flag is present and
// computes the first run time.
func kickoffFromFlags(now time.Time, daily string, onceIn int) (bool, time.Time, error) {
	switch {
	case daily != "" && onceIn != 0:
		return false, time.Time{}, &transfer.ConfigurationError{Field: "schedule", Reason: "pass either --daily or --once-in, not both"}
	case daily != "":
		tod, err := transfer.ParseTimeOfDay(daily)
		if err != nil {
			return false, time.Time{}, err
		}
		return true, transfer.Kickoff(now, true, tod, 0), nil
	case onceIn > 0:
		return false, transfer.Kickoff(now, false, time.Time{}, onceIn), nil
	case onceIn < 0:
		return false, time.Time{}, &transfer.ConfigurationError{Field: "schedule", Reason: fmt.Sprintf("--once-in must be positive, got %d", onceIn)}
	default:
		return false, time.Time{}, &transfer.ConfigurationError{Field: "schedule", Reason: "one of --daily or --once-in is required"}
	}
}

// resolveAwsAccessKey returns the credentials an S3 source runs with.
// Explicit flags win; a lone key id prompts for the secret on a terminal;
// otherwise the default AWS credential chain is consulted.
func resolveAwsAccessKey(ctx context.Context, keyID, secret string) (*transfer.AwsAccessKey, error) {
	if keyID != "" && secret != "" {
		return &transfer.AwsAccessKey{AccessKeyID: keyID, SecretAccessKey: secret}, nil
	}
	if keyID != "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "AWS secret access key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read the AWS secret access key")
		}
		return &transfer.AwsAccessKey{AccessKeyID: keyID, SecretAccessKey: string(raw)}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load the AWS configuration")
	}
	if cfg.Credentials == nil {
		return nil, &transfer.ConfigurationError{Field: "aws credentials", Reason: "no AWS credential provider is configured"}
	}
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, &transfer.ConfigurationError{
			Field:  "aws credentials",
			Reason: "pass --aws-access-key-id and --aws-secret-access-key or configure the AWS credential chain: " + err.Error(),
		}
	}
	if keyID != "" && creds.AccessKeyID != keyID {
		log.Warningf("Using AWS access key %s from the credential chain instead of %s", creds.AccessKeyID, keyID)
	}
	log.Debugf("Using AWS credentials from %s", creds.Source)
	return &transfer.AwsAccessKey{AccessKeyID: creds.AccessKeyID, SecretAccessKey: creds.SecretAccessKey}, nil
}

func jobCreateMain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]

	source, err := transfer.ParseBucketURL(args[1])
	if err != nil {
		return err
	}
	sink, err := transfer.ParseBucketURL(args[2])
	if err != nil {
		return err
	}
	daily, kickoff, err := kickoffFromFlags(timeNow(), createDaily, createOnceIn)
	if err != nil {
		return err
	}
	if createMinElapsed < 0 {
		return &transfer.ConfigurationError{Field: "elapsed-last-modification", Reason: "must not be negative"}
	}

	req := transfer.CreateRequest{
		ProjectID:                   projectID,
		Source:                      source,
		Sink:                        sink,
		Description:                 createDescription,
		Daily:                       daily,
		Kickoff:                     kickoff,
		IncludePrefixes:             createIncludePrefixes,
		ExcludePrefixes:             createExcludePrefixes,
		MinElapsedSinceModification: time.Duration(createMinElapsed) * time.Second,
	}
	if source.Scheme == transfer.SchemeS3 {
		if req.AwsAccessKey, err = resolveAwsAccessKey(ctx, createAwsKeyID, createAwsSecret); err != nil {
			return err
		}
	}
	job, err := transfer.NewJob(req)
	if err != nil {
		return err
	}

	tc, err := newTransferClient(ctx)
	if err != nil {
		return err
	}
	created, err := tc.CreateJob(ctx, job)
	if err != nil {
		return errors.Wrap(err, "failed to create the transfer job")
	}
	log.Infof("Created transfer job %s, first run at %s", created.Name, kickoff.Format(time.RFC3339))
	return report.WriteJob(cmd.OutOrStdout(), *created, outputJSON)
}
