// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*

The framework logs through logrus, imported as log, using the package level
logger. Container transitions and listener callbacks are logged at trace and
debug level; failed starts at warn level; the stacks of container workers
dumped after a timed out wait at error level.

All internal logs go to stderr unless SetOutput redirects them. SetLogLevel
installs the InternalFormatter, which prints one line per entry:

	2021-05-04T10:11:12.134Z [DEBUG] (msc) Service "jbosgi.framework.ACTIVE" STARTING_to_UP

*/
package logging
