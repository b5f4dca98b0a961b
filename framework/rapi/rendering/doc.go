// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*

Package rendering writes API responses.

Every response body is JSON, regardless of the Accept header of the request,
except for the plain text container dump. Errors are rendered as
model.ErrorResponse with one of the ErrorType constants.

*/
package rendering
