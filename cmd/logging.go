/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/humaidq/skywave/logging"

var appLogger = logging.Logger(logging.SourceApp)
var serverStdLogger = logging.StdLogger(logging.SourceWeb)
