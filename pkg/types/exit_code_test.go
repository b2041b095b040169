// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    ExitCode
		wantErr bool
	}{
		{ExitOK, false},
		{ExitBadPackage, false},
		{255, false},
		{-1, true},
		{256, true},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()
			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error should wrap ErrInvalidExitCode, got: %v", err)
			}
		})
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitOK.IsSuccess() {
		t.Error("ExitOK.IsSuccess() = false")
	}
	if ExitNotResolved.IsSuccess() {
		t.Error("ExitNotResolved.IsSuccess() = true")
	}
}
